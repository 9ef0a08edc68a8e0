package weblog

import (
	"errors"
	"reflect"
	"runtime"
)

// Matcher decides whether a recovered panic value is handled by a guard.
//
// Values rejected by the matcher propagate unlogged, like exceptions outside
// a caught type.
type Matcher func(recovered any) bool

// MatchAny accepts every recovered value. It is the default matcher.
func MatchAny(any) bool {
	return true
}

// MatchError accepts recovered error values matching any target per
// errors.Is. Non-error panic values are rejected.
func MatchError(targets ...error) Matcher {
	return func(recovered any) bool {
		err, ok := recovered.(error)
		if !ok {
			return false
		}
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// MatchType accepts recovered error values assignable to E per errors.As.
func MatchType[E error]() Matcher {
	return func(recovered any) bool {
		err, ok := recovered.(error)
		if !ok {
			return false
		}
		var target E
		return errors.As(err, &target)
	}
}

// GuardOptions configures a SecureFunc guard.
//
// The zero value gives the documented defaults: match every panic, suppress
// without re-panicking, and return the zero value of T.
type GuardOptions[T any] struct {
	// Message is a static line appended to the log record.
	Message string

	// Repanic overrides the suppress-by-default policy. Unlike SecureView,
	// an unset Repanic never consults the debug flag.
	Repanic SetValue[bool]

	// FailValue is returned when a panic is suppressed.
	FailValue SetValue[T]

	// FailFunc lazily produces the suppression value. It wins over FailValue.
	FailFunc func() T

	// FailErrFunc produces the suppression value from the recovered panic as
	// an error (non-error values arrive wrapped in PanicError). It wins over
	// FailFunc and FailValue.
	FailErrFunc func(error) T

	// Match filters recovered values. Defaults to MatchAny.
	Match Matcher

	// Name overrides the qualified function name in the log record.
	Name string

	// Fields are key-value pairs attached to the log record.
	Fields []any
}

// SecureFunc wraps fn so that a matched panic is logged exactly once and
// either re-panics or is suppressed in favor of the configured fallback
// value.
//
// The log record carries the recovered value's type and text, the wrapped
// function's qualified name, and the optional static message.
func SecureFunc[T any](l *Logger, fn func() T, opts GuardOptions[T]) func() T {
	name := guardName(opts.Name, fn)
	return func() T {
		return guardCall(l, name, nil, opts, fn)
	}
}

// SecureFunc1 is SecureFunc for single-argument functions. The call-time
// argument is rendered into the log record.
func SecureFunc1[A, T any](l *Logger, fn func(A) T, opts GuardOptions[T]) func(A) T {
	name := guardName(opts.Name, fn)
	return func(a A) T {
		return guardCall(l, name, []any{a}, opts, func() T { return fn(a) })
	}
}

// SecureFunc2 is SecureFunc for two-argument functions. The call-time
// arguments are rendered into the log record.
func SecureFunc2[A, B, T any](l *Logger, fn func(A, B) T, opts GuardOptions[T]) func(A, B) T {
	name := guardName(opts.Name, fn)
	return func(a A, b B) T {
		return guardCall(l, name, []any{a, b}, opts, func() T { return fn(a, b) })
	}
}

// guardCall runs fn under the guard policy: recover, match, log once, then
// re-panic or produce the fallback value.
func guardCall[T any](l *Logger, name string, args []any, opts GuardOptions[T], fn func() T) (out T) {
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
		lines = append(lines, "Function: "+name)
		if len(args) > 0 {
			lines = append(lines, "Args: "+safeSprint(args))
		}
		if opts.Message != "" {
			lines = append(lines, opts.Message)
		}

		repanic := resolveRepanic(opts.Repanic, false)
		l.panicCaught(recovered, lines, opts.Fields, repanic)
		if repanic {
			panic(recovered)
		}

		out = resolveFail(recovered, opts)
	}()

	return fn()
}

// resolveFail produces the suppression value, preferring FailErrFunc, then
// FailFunc, then FailValue, then the zero value.
func resolveFail[T any](recovered any, opts GuardOptions[T]) T {
	if opts.FailErrFunc != nil {
		return opts.FailErrFunc(asGuardError(recovered))
	}
	if opts.FailFunc != nil {
		return opts.FailFunc()
	}
	if opts.FailValue.isSet() {
		return opts.FailValue.value()
	}

	var zero T
	return zero
}

// guardName resolves the qualified name reported for a wrapped function.
func guardName(override string, fn any) string {
	if override != "" {
		return override
	}

	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return "unknown"
}
