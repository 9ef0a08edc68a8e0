// Package weblog provides logging and HTTP helpers for web-application
// backends: a named-logger registry built on log/slog with caller-location
// correction and per-name log files, panic-guard wrappers for request
// handlers and plain functions, and small client-IP / URL utilities.
//
// # Logger Registry
//
// A Registry owns one Logger per name. Loggers are created and configured on
// first lookup and cached for the registry's lifetime:
//
//	reg, err := weblog.New(
//	    weblog.WithDir("/var/log/myapp"),
//	    weblog.WithDebug(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger, err := reg.Logger("orders")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger.Info("order accepted", "id", orderID)
//
// Each logger appends UTF-8 text records to <dir>/<name>.log. Records below
// 4096 bytes append atomically under concurrent writers on POSIX systems;
// larger records, such as ones carrying tracebacks, are not guaranteed
// atomic. Bound traceback depth with WithStackDepth accordingly.
//
// DeferredLogger returns an unconfigured logger. Unconfigured loggers discard
// every record until Configure is called; Configured reports the state. This
// is the documented policy for the "create now, configure later" path.
//
// # Caller-Location Correction
//
// The {source} format token reports the application call site, not the
// wrapper machinery. Helper functions that wrap logging calls use
// AddCallerSkip so reported locations stay on the real caller:
//
//	func warnf(l *weblog.Logger, format string, args ...any) {
//	    l.AddCallerSkip(1).Warn(fmt.Sprintf(format, args...))
//	}
//
// Reported file paths are made relative to the root configured with
// WithModuleRoot; paths outside the root fall back to the raw path.
//
// # Panic Guards
//
// SecureFunc wraps a function so a matched panic is logged exactly once and
// then either re-panics or is suppressed in favor of a fallback value:
//
//	get := weblog.SecureFunc(logger, loadGreeting, weblog.GuardOptions[string]{
//	    FailValue: weblog.Set("hello"),
//	})
//	greeting := get() // "hello" when loadGreeting panics
//
// SecureView does the same for HTTP handlers, logging request details and
// serving a fallback response. When Repanic is not set explicitly, SecureView
// defers to the registry debug flag while SecureFunc suppresses by default.
//
// # Settings
//
// LoadSettings reads Settings from defaults, an optional YAML file, and
// WEBLOG_-prefixed environment variables, in ascending priority. Apply them
// with FromSettings:
//
//	s, err := weblog.LoadSettings("")
//	reg, err := weblog.New(weblog.FromSettings(s))
//
// # Observability
//
// Metrics is a pluggable interface recording written records and recovered
// panics. A Prometheus adapter lives in the prometheus subpackage:
//
//	reg, err := weblog.New(weblogprom.WithMetrics())
//
// # Thread Safety
//
// Registry and Logger instances are safe for concurrent use. Guards add no
// synchronization of their own; concurrent writers to one log file rely on
// the append atomicity noted above.
package weblog
