package weblog

import (
	"fmt"
	"sync"
)

// Registry owns one Logger per name.
//
// A Registry replaces the usual process-global logger map with an explicit
// value owned by application startup code and passed to the components that
// log. Within one Registry, name to Logger is a bijection: repeated lookups
// of the same name return the identical instance.
//
// Registry instances are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	cfg     *config
	loggers map[string]*Logger
}

// New creates a Registry from zero or more Option builders.
func New(opts ...Option) (*Registry, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Registry{
		cfg:     cfg,
		loggers: make(map[string]*Logger),
	}, nil
}

// Logger returns the cached logger for name, creating and configuring it on
// first lookup.
//
// Configuration opens <dir>/<name>.log for appending unless the registry was
// built with WithOutput. When first-time configuration fails, the logger is
// not cached so a later call can retry. A logger previously obtained through
// DeferredLogger is returned as-is, whatever its configuration state.
func (r *Registry) Logger(name string) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l, nil
	}

	l := newLogger(name, r.cfg)
	if err := l.Configure(); err != nil {
		return nil, fmt.Errorf("configure logger %q: %w", name, err)
	}

	r.loggers[name] = l
	return l, nil
}

// DeferredLogger returns the cached logger for name, creating it without
// configuration on first lookup.
//
// The caller must invoke Configure before records are written; until then
// every record is discarded.
func (r *Registry) DeferredLogger(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}

	l := newLogger(name, r.cfg)
	r.loggers[name] = l
	return l
}

// Names returns the names of all loggers created so far.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	return names
}
