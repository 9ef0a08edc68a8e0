package weblog

// Metrics records logging outcomes emitted by Logger and the panic guards.
//
// Implementations should be safe for concurrent use, as a single Registry's
// metrics instance is shared by every logger and guard it configures.
type Metrics interface {
	// RecordWrite is called after a record is written, labeled by level.
	RecordWrite(level string)
	// RecordPanic is called for every caught panic, labeled by outcome
	// (repanicked, suppressed).
	RecordPanic(outcome string)
}

// noopMetrics is the default Metrics implementation when metrics are not
// explicitly configured.
type noopMetrics struct{}

func (noopMetrics) RecordWrite(string) {}

func (noopMetrics) RecordPanic(string) {}
