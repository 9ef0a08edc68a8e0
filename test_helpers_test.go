package weblog

import (
	"bytes"
	"sync"
	"testing"
)

// syncBuffer is a concurrency-safe output sink for registry tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// recordingMetrics captures metric calls for assertions on record and panic
// counts.
type recordingMetrics struct {
	mu     sync.Mutex
	writes []string
	panics []string
}

func (m *recordingMetrics) RecordWrite(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, level)
}

func (m *recordingMetrics) RecordPanic(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics = append(m.panics, outcome)
}

func (m *recordingMetrics) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

func (m *recordingMetrics) panicOutcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcomes := make([]string, len(m.panics))
	copy(outcomes, m.panics)
	return outcomes
}

// newTestLogger builds a registry writing to buf and returns its logger plus
// the recording metrics, applying extra options after the test defaults.
func newTestLogger(t *testing.T, buf *syncBuffer, metrics *recordingMetrics, opts ...Option) *Logger {
	t.Helper()

	base := []Option{
		WithOutput(buf),
		WithFormat("[{level}] {message}"),
		WithMetrics(metrics),
	}
	reg, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger, err := reg.Logger("test")
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	return logger
}
