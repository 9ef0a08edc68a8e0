package weblog

import (
	"fmt"
	"io"
	"log/slog"
)

// WithDebug sets the debug flag.
//
// The flag controls the default re-panic policy of SecureView: when no
// explicit Repanic override is given, caught panics re-panic in debug mode
// and are suppressed otherwise.
func WithDebug(debug bool) Option {
	return func(c *config) error {
		c.debug = debug
		return nil
	}
}

// WithDir sets the base directory for per-name log files.
//
// The directory is created on first logger configuration if absent.
func WithDir(dir string) Option {
	return func(c *config) error {
		c.dir = dir
		return nil
	}
}

// WithLevel sets the minimum record level.
func WithLevel(level slog.Level) Option {
	return func(c *config) error {
		c.level = level
		return nil
	}
}

// WithFormat sets the record line format.
//
// Supported tokens: {time}, {level}, {source}, {message}. The format must
// contain {message}.
func WithFormat(format string) Option {
	return func(c *config) error {
		c.format = format
		return nil
	}
}

// WithStackDepth bounds the number of frames rendered into traceback records.
func WithStackDepth(depth int) Option {
	return func(c *config) error {
		c.stackDepth = depth
		return nil
	}
}

// WithModuleRoot sets the directory that reported file paths are made
// relative to.
//
// Paths that do not sit under the root are reported unchanged.
func WithModuleRoot(root string) Option {
	return func(c *config) error {
		c.moduleRoot = root
		return nil
	}
}

// WithUserFunc sets the hook that resolves the authenticated user for
// request-detail formatting.
func WithUserFunc(fn UserFunc) Option {
	return func(c *config) error {
		c.userFunc = fn
		return nil
	}
}

// WithOutput redirects all loggers of the registry to a single writer
// instead of per-name files.
//
// Intended for tests and for processes that log to a managed stream.
func WithOutput(w io.Writer) Option {
	return func(c *config) error {
		c.output = w
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked only for the final winning metrics option after
// option validation succeeds.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}
