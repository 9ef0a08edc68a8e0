package weblog

const (
	outcomeRepanicked = "repanicked"
	outcomeSuppressed = "suppressed"
)
