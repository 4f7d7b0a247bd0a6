// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Input document errors
	ErrInputNotFound ErrorCode = "ERR-INPUT-001"
	ErrInputTooLarge ErrorCode = "ERR-INPUT-002"
	ErrInputSyntax   ErrorCode = "ERR-INPUT-003"
	ErrInputRoot     ErrorCode = "ERR-INPUT-004"
	ErrInputRead     ErrorCode = "ERR-INPUT-005"

	// Generation errors
	ErrGenModel    ErrorCode = "ERR-GEN-001"
	ErrGenOutDir   ErrorCode = "ERR-GEN-002"
	ErrGenWrite    ErrorCode = "ERR-GEN-003"
	ErrGenTemplate ErrorCode = "ERR-GEN-004"

	// Packaging errors
	ErrPkgSource     ErrorCode = "ERR-PKG-001"
	ErrPkgDuplicate  ErrorCode = "ERR-PKG-002"
	ErrPkgEntryPoint ErrorCode = "ERR-PKG-003"
	ErrPkgWrite      ErrorCode = "ERR-PKG-004"
	ErrPkgEntryName  ErrorCode = "ERR-PKG-005"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"
)

// Exit codes returned by the dtogen binary.
const (
	ExitUser     = 1
	ExitInternal = 2
	ExitUnknown  = 99
)

// internalCodes lists the codes the user cannot fix by changing input.
var internalCodes = map[ErrorCode]bool{
	ErrUnknown:    true,
	ErrInternal:   true,
	ErrGenModel:   true,
	ErrStateRead:  true,
	ErrStateWrite: true,
}

// Error is the standard structured error type used across all dtogen packages.
type Error struct {
	Code     ErrorCode // Machine-parseable error code
	Op       string    // Operation chain, e.g., "package.merge.write"
	Resource string    // File, class or entry the error relates to
	Cause    error     // Wrapped upstream error
	Advice   string    // Human-readable remediation hint
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Resource, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *Error) UserMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Code, e.Cause)
	if e.Resource != "" {
		fmt.Fprintf(&b, " (resource: %s)", e.Resource)
	}
	if e.Advice != "" {
		fmt.Fprintf(&b, "\n  → %s", e.Advice)
	}
	return b.String()
}

// Internal reports whether the error is not correctable by the user.
func (e *Error) Internal() bool {
	return internalCodes[e.Code]
}

// New creates a new Error.
func New(code ErrorCode, op string, cause error) *Error {
	return &Error{Code: code, Op: op, Cause: cause}
}

// Newf creates a new Error with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithResource sets the resource identifier on an Error.
func (e *Error) WithResource(resource string) *Error {
	e.Resource = resource
	return e
}

// WithAdvice sets the human-readable remediation hint on an Error.
func (e *Error) WithAdvice(advice string) *Error {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as an Error at a new operation boundary.
// An error that already carries a code keeps it.
func Wrap(err error, code ErrorCode, op string) *Error {
	if err == nil {
		return nil
	}
	if inner := As(err); inner != nil {
		code = inner.Code
	}
	return &Error{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As extracts the outermost *Error from err, or returns nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	e := As(err)
	if e == nil {
		return ExitUnknown
	}
	if e.Internal() {
		return ExitInternal
	}
	return ExitUser
}
