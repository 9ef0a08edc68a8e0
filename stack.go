package weblog

import (
	"fmt"
	"runtime"
	"strings"
)

// stackCaptureSlack leaves room for runtime frames that are filtered out of
// rendered tracebacks.
const stackCaptureSlack = 16

// captureFrames returns up to max non-runtime frames, starting skip callers
// above the caller of captureFrames.
func captureFrames(skip, max int) []runtime.Frame {
	pcs := make([]uintptr, max+stackCaptureSlack)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	return collectFrames(runtime.CallersFrames(pcs[:n]), max, false)
}

// panicFrames returns up to max frames describing the panic site and its
// callers. It must run during panic unwinding, below runtime.gopanic; when
// no gopanic frame is on the stack it returns nil.
func panicFrames(max int) []runtime.Frame {
	pcs := make([]uintptr, 2*(max+stackCaptureSlack))
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return nil
	}

	return collectFrames(runtime.CallersFrames(pcs[:n]), max, true)
}

// collectFrames walks frames, optionally discarding everything up to and
// including the innermost runtime.gopanic, and filters runtime internals
// from the result.
func collectFrames(frames *runtime.Frames, max int, belowGopanic bool) []runtime.Frame {
	collected := make([]runtime.Frame, 0, max)
	seenGopanic := false

	for {
		frame, more := frames.Next()

		if belowGopanic && !seenGopanic {
			if frame.Function == "runtime.gopanic" {
				seenGopanic = true
			}
			if !more {
				return nil
			}
			continue
		}

		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			collected = append(collected, frame)
			if len(collected) >= max {
				break
			}
		}

		if !more {
			break
		}
	}

	if belowGopanic && !seenGopanic {
		return nil
	}
	return collected
}

// formatFrames renders frames in two-line pairs of function and location,
// with file paths made relative to root when possible.
func formatFrames(frames []runtime.Frame, root string) string {
	var b strings.Builder
	for i, frame := range frames {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "\t%s\n\t\t%s:%d", frame.Function, relativePath(root, frame.File), frame.Line)
	}
	return b.String()
}
