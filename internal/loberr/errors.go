// Package loberr defines the error taxonomy shared by every fallible
// component: IO, Cache, Toolchain, Compilation, InvalidExpression and
// Execution. Each error carries a sentinel kind so callers can branch on
// category without parsing messages.
package loberr

import (
	"errors"
	"fmt"
)

var (
	ErrIO                = errors.New("IO error")
	ErrCache             = errors.New("Cache error")
	ErrToolchain         = errors.New("Toolchain error")
	ErrCompilation       = errors.New("Compilation failed")
	ErrInvalidExpression = errors.New("Invalid expression")
	ErrExecution         = errors.New("Execution failed")
)

// Error wraps a sentinel kind with a human-readable message.
//
// Compilation errors are special: Msg holds the fully formatted diagnostic
// report and is printed verbatim, never wrapped in an "Error:" prefix.
type Error struct {
	Kind error
	Msg  string

	// Status is the child process exit status for ErrExecution.
	Status int

	// cause is an optional underlying error, surfaced via Unwrap.
	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// IO wraps a filesystem failure, passing the underlying message through.
func IO(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrIO, Msg: err.Error(), cause: err}
}

func IOf(format string, args ...any) error {
	return &Error{Kind: ErrIO, Msg: fmt.Sprintf(format, args...)}
}

func Cachef(format string, args ...any) error {
	return &Error{Kind: ErrCache, Msg: fmt.Sprintf(format, args...)}
}

func Toolchainf(format string, args ...any) error {
	return &Error{Kind: ErrToolchain, Msg: fmt.Sprintf(format, args...)}
}

// Compilation returns an error carrying a pre-translated diagnostic report.
// The report is display-ready; callers must not re-wrap or re-format it.
func Compilation(report string) error {
	return &Error{Kind: ErrCompilation, Msg: report}
}

func InvalidExpressionf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidExpression, Msg: fmt.Sprintf(format, args...)}
}

// Execution reports a child program that exited with a non-zero status.
// This is distinct from a compilation failure: the binary built and ran.
func Execution(status int) error {
	return &Error{
		Kind:   ErrExecution,
		Msg:    fmt.Sprintf("program exited with status %d", status),
		Status: status,
	}
}

// IsCompilation reports whether err is a compilation failure whose message
// should be printed bare.
func IsCompilation(err error) bool {
	return errors.Is(err, ErrCompilation)
}

// Message returns the wrapped message without the kind prefix.
// For non-taxonomy errors it falls back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// ExitStatus returns the recorded child exit status, or 0 if err is not an
// execution failure.
func ExitStatus(err error) int {
	var e *Error
	if errors.As(err, &e) && errors.Is(e.Kind, ErrExecution) {
		return e.Status
	}
	return 0
}
