package weblog

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	// DefaultDir is the base directory for per-name log files.
	DefaultDir = "./logstore"

	// DefaultFormat is the record line format. Supported tokens are {time},
	// {level}, {source}, and {message}.
	DefaultFormat = "{time} [{level}] {message}"

	// DefaultStackDepth bounds the number of frames rendered into traceback
	// records. Eight frames keeps typical records under the 4096-byte
	// atomic-append threshold while covering the interesting part of a stack.
	DefaultStackDepth = 8

	// atomicWriteSize is the POSIX pipe-buffer bound below which appends are
	// atomic under concurrent writers. Referenced by the package docs; records
	// are not truncated to it.
	atomicWriteSize = 4096

	defaultTimeLayout = "2006-01-02 15:04:05"
)

// Option configures a Registry.
//
// Construct options using package-provided option builder functions.
type Option func(*config) error

// SetValue represents an optional override value.
//
// Use Set(v) to mark a value as explicitly provided; the zero SetValue is
// "unset" and lets the consumer apply its documented default.
type SetValue[T any] struct {
	v   T
	set bool
}

// Set marks a value as explicitly set.
func Set[T any](value T) SetValue[T] {
	return SetValue[T]{v: value, set: true}
}

// isSet reports whether a value was explicitly provided.
func (s SetValue[T]) isSet() bool {
	return s.set
}

// value returns the stored value.
func (s SetValue[T]) value() T {
	return s.v
}

// UserFunc reports the authenticated user for a request, if any.
//
// The returned string is included verbatim in formatted request details when
// ok is true. Implementations must treat the request as read-only.
type UserFunc func(r *http.Request) (string, bool)

// config holds registry configuration state.
//
// It is mutated by Option functions during construction.
type config struct {
	debug      bool
	dir        string
	level      slog.Level
	format     string
	stackDepth int
	moduleRoot string

	userFunc UserFunc
	metrics  Metrics
	output   io.Writer

	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

func defaultConfig() *config {
	return &config{
		dir:        DefaultDir,
		level:      slog.LevelInfo,
		format:     DefaultFormat,
		stackDepth: DefaultStackDepth,
		metrics:    noopMetrics{},
	}
}

func applyOptions(c *config, opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.useMetricsFactory {
		metrics, err := cfg.metricsFactory()
		if err != nil {
			return nil, fmt.Errorf("metrics factory: %w", err)
		}
		cfg.metrics = metrics
	}
	if cfg.metrics == nil {
		cfg.metrics = noopMetrics{}
	}

	return cfg, nil
}

func (c *config) validate() error {
	if !strings.Contains(c.format, "{message}") {
		return fmt.Errorf("invalid format %q: %w", c.format, ErrMissingMessageToken)
	}
	if c.stackDepth < 1 {
		return fmt.Errorf("invalid stack depth %d: %w", c.stackDepth, ErrInvalidStackDepth)
	}
	if c.dir == "" && c.output == nil {
		return ErrEmptyDir
	}
	return nil
}
