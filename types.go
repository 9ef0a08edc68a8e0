package weblog

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLevel = errors.New("unknown log level")

	ErrMissingMessageToken = errors.New("format must contain the {message} token")

	ErrInvalidStackDepth = errors.New("stack depth must be at least 1")

	ErrEmptyDir = errors.New("log directory must not be empty")
)

// PanicError wraps a recovered panic value so it can travel as an error.
//
// Guards hand a PanicError to FailErrFunc when the recovered value is not
// already an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", safeSprint(e.Value))
}

// Unwrap returns the recovered value when it is an error, else nil.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// asGuardError converts a recovered panic value into an error, wrapping
// non-error values in a PanicError.
func asGuardError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return &PanicError{Value: recovered}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

func safeSprint(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = "<unprintable>"
		}
	}()
	return fmt.Sprint(v)
}
