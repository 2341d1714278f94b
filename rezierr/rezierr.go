// Package rezierr defines the error taxonomy shared by the drawlist,
// resource, measure, and transport packages: a fixed set of kinds plus a
// free-form detail string, optionally wrapping a cause for errors.Is and
// errors.As.
package rezierr

import (
	"errors"
	"fmt"
)

// Kind discriminates the module's five error categories.
type Kind int

const (
	// BadParams marks a validation failure: non-finite numbers, out-of-range
	// integers, wrong buffer shape, invalid enum value, incompatible
	// pixel/byte dimensions, or a stableKey collision within a frame.
	BadParams Kind = iota

	// TooLarge marks a configured limit exceeded with no remedy (frame
	// bytes, command count, intern-table capacity with no evictable entry,
	// slot size).
	TooLarge

	// Format marks malformed bytes observed at a decode boundary.
	Format

	// Internal marks a violated invariant (e.g. unaligned command stream)
	// or an environment-support failure.
	Internal

	// BackendError marks a consumer-side failure surfaced on an accepted or
	// completed frame acknowledgment.
	BackendError
)

// String returns the taxonomy name used in {code, detail} surfacing.
func (k Kind) String() string {
	switch k {
	case BadParams:
		return "BAD_PARAMS"
	case TooLarge:
		return "TOO_LARGE"
	case Format:
		return "FORMAT"
	case Internal:
		return "INTERNAL"
	case BackendError:
		return "BACKEND_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Error is the module's error value: a kind plus a human-readable detail,
// optionally wrapping a cause.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

// New creates an Error of kind with the given detail.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf creates an Error of kind with a formatted detail.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of kind with detail, wrapping cause for %w-style
// unwrapping.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
