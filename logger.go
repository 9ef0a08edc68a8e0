package weblog

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Logger writes named, formatted records to its configured sink.
//
// A Logger composes a plain slog.Handler instead of being one: the wrapper
// captures the caller program counter itself so reported locations skip the
// wrapper frames, and it owns the traceback and request formatting applied
// to records. Obtain instances through Registry; the zero Logger is not
// usable.
//
// Logger instances are safe for concurrent use.
type Logger struct {
	name       string
	callerSkip int
	state      *loggerState
}

// loggerState carries the configurable part of a Logger. It is shared
// between a base logger and its AddCallerSkip derivatives.
type loggerState struct {
	mu         sync.Mutex
	configured bool
	handler    slog.Handler
	debug      bool
	stackDepth int
	moduleRoot string
	userFunc   UserFunc
	metrics    Metrics

	cfg *config
}

// loggerView is an immutable snapshot of loggerState taken per call.
type loggerView struct {
	handler    slog.Handler
	debug      bool
	stackDepth int
	moduleRoot string
	userFunc   UserFunc
	metrics    Metrics
}

func newLogger(name string, cfg *config) *Logger {
	return &Logger{
		name: name,
		state: &loggerState{
			stackDepth: cfg.stackDepth,
			metrics:    noopMetrics{},
			cfg:        cfg,
		},
	}
}

// Name returns the registry name of the logger.
func (l *Logger) Name() string {
	return l.name
}

// Configured reports whether Configure has completed successfully.
func (l *Logger) Configured() bool {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	return l.state.configured
}

// Configure applies the registry configuration and attaches the output
// handler.
//
// Registry.Logger calls Configure on first lookup; only loggers obtained
// through DeferredLogger need an explicit call. Configure is idempotent in
// effect: calling it again overwrites prior settings and replaces the
// handler, re-opening the log file and dropping the previous handle.
func (l *Logger) Configure() error {
	s := l.state
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	w := cfg.output
	if w == nil {
		f, err := openLogFile(cfg.dir, l.name)
		if err != nil {
			return err
		}
		w = f
	}

	s.handler = newLineHandler(w, lineHandlerOptions{
		Level:      cfg.level,
		Format:     cfg.format,
		ModuleRoot: cfg.moduleRoot,
		TimeLayout: defaultTimeLayout,
	})
	s.debug = cfg.debug
	s.stackDepth = cfg.stackDepth
	s.moduleRoot = cfg.moduleRoot
	s.userFunc = cfg.userFunc
	s.metrics = cfg.metrics
	s.configured = true
	return nil
}

// AddCallerSkip returns a derived logger whose reported call sites skip n
// additional frames.
//
// Use it in helper functions that wrap logging calls so records point at the
// helper's caller. The derived logger shares configuration with its parent.
func (l *Logger) AddCallerSkip(n int) *Logger {
	return &Logger{
		name:       l.name,
		callerSkip: l.callerSkip + n,
		state:      l.state,
	}
}

func (l *Logger) view() loggerView {
	s := l.state
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics := s.metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return loggerView{
		handler:    s.handler,
		debug:      s.debug,
		stackDepth: s.stackDepth,
		moduleRoot: s.moduleRoot,
		userFunc:   s.userFunc,
		metrics:    metrics,
	}
}

func (l *Logger) debugFlag() bool {
	return l.view().debug
}

// Debug writes a debug-level record.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args)
}

// Info writes an info-level record.
func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args)
}

// Warn writes a warn-level record.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args)
}

// Error writes an error-level record.
func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args)
}

// InfoContext writes an info-level record carrying ctx to the handler.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args)
}

// ErrorContext writes an error-level record carrying ctx to the handler.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args)
}

// Exception writes an error-level record with a traceback of the call site.
//
// At most the configured stack depth of frames is rendered. Records that stay
// under 4096 bytes append atomically; deep tracebacks may interleave under
// concurrent writers.
func (l *Logger) Exception(msg string, args ...any) {
	frames := captureFrames(1+l.callerSkip, l.view().stackDepth)
	l.logTrace(msg, args, frames)
}

// OnPanic logs a recovered panic and re-panics if required by policy.
//
// The record carries the recovered value's type and text, optional request
// details, and the static message. When repanic is unset the debug flag
// decides: debug re-panics, production suppresses. Call OnPanic from a
// deferred function after recover.
func (l *Logger) OnPanic(recovered any, message string, req *http.Request, repanic SetValue[bool]) {
	lines := panicHeader(recovered)
	if req != nil {
		lines = append(lines, l.requestLines(req)...)
	}
	if message != "" {
		lines = append(lines, message)
	}

	resolved := resolveRepanic(repanic, l.debugFlag())
	l.panicCaught(recovered, lines, nil, resolved)
	if resolved {
		panic(recovered)
	}
}

// log writes one record with the caller pc resolved past the wrapper frames.
func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	v := l.view()
	if v.handler == nil || !v.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	// skip runtime.Callers, log, and the exported wrapper method.
	runtime.Callers(3+l.callerSkip, pcs[:])

	rec := slog.NewRecord(time.Now(), level, msg, pcs[0])
	rec.Add(args...)
	if err := v.handler.Handle(ctx, rec); err == nil {
		v.metrics.RecordWrite(level.String())
	}
}

// logTrace writes an error-level record with rendered traceback frames. The
// record pc is the first frame so {source} reports the origin, not the
// logging machinery.
func (l *Logger) logTrace(msg string, args []any, frames []runtime.Frame) {
	v := l.view()
	if v.handler == nil || !v.handler.Enabled(context.Background(), slog.LevelError) {
		return
	}

	text := msg
	var pc uintptr
	if len(frames) > 0 {
		text += "\nTraceback:\n" + formatFrames(frames, v.moduleRoot)
		pc = frames[0].PC
	}

	rec := slog.NewRecord(time.Now(), slog.LevelError, text, pc)
	rec.Add(args...)
	if err := v.handler.Handle(context.Background(), rec); err == nil {
		v.metrics.RecordWrite(slog.LevelError.String())
	}
}

// panicCaught logs a recovered panic exactly once and records the outcome.
// It never panics itself: formatting failures degrade to best-effort text
// and are swallowed.
func (l *Logger) panicCaught(recovered any, lines []string, fields []any, repanic bool) {
	func() {
		defer func() { _ = recover() }()

		frames := panicFrames(l.view().stackDepth)
		if len(frames) == 0 {
			frames = captureFrames(2+l.callerSkip, l.view().stackDepth)
		}
		l.logTrace(strings.Join(lines, "\n"), fields, frames)
	}()

	if repanic {
		l.view().metrics.RecordPanic(outcomeRepanicked)
	} else {
		l.view().metrics.RecordPanic(outcomeSuppressed)
	}
}

func panicHeader(recovered any) []string {
	return []string{"Recovered " + typeName(recovered) + ": " + safeSprint(recovered)}
}

func resolveRepanic(override SetValue[bool], fallback bool) bool {
	if override.isSet() {
		return override.value()
	}
	return fallback
}
