package weblog

import (
	"net/http"
)

// ViewOptions configures a SecureView guard.
type ViewOptions struct {
	// Message is a static line appended after the request details.
	Message string

	// Repanic overrides the debug-flag default: when unset, caught panics
	// re-panic in debug mode and are suppressed otherwise.
	Repanic SetValue[bool]

	// Fallback serves the response when a panic is suppressed. Defaults to a
	// plain 500. The handler runs only on suppression, so expensive fallback
	// construction stays lazy.
	Fallback http.Handler

	// Match filters recovered values. Defaults to MatchAny.
	Match Matcher
}

var defaultViewFallback = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
})

// SecureView wraps a request handler so that a matched panic is logged once
// with the request details and either re-panics or is suppressed in favor of
// the fallback response.
//
// The log record carries the lines of FormatRequest, the recovered value's
// type and text, the optional static message, and a bounded traceback of the
// panic site.
func (l *Logger) SecureView(next http.Handler, opts ViewOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			match := opts.Match
			if match == nil {
				match = MatchAny
			}
			if !match(recovered) {
				panic(recovered)
			}

			lines := panicHeader(recovered)
			lines = append(lines, l.requestLines(r)...)
			if opts.Message != "" {
				lines = append(lines, opts.Message)
			}

			repanic := resolveRepanic(opts.Repanic, l.debugFlag())
			l.panicCaught(recovered, lines, nil, repanic)
			if repanic {
				panic(recovered)
			}

			fallback := opts.Fallback
			if fallback == nil {
				fallback = defaultViewFallback
			}
			fallback.ServeHTTP(w, r)
		}()

		next.ServeHTTP(w, r)
	})
}

// SecureViewFunc is SecureView for handler functions.
func (l *Logger) SecureViewFunc(next http.HandlerFunc, opts ViewOptions) http.HandlerFunc {
	return l.SecureView(next, opts).(http.HandlerFunc)
}
