// Package wgerr defines the error kinds the generator can fail with and
// maps them onto the process exit codes documented in the CLI contract.
package wgerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the CLI can choose the right exit code
// and so callers can errors.As into a specific kind without string matching.
type Kind int

const (
	// KindConfig covers invalid flag values — reported before any simulation runs.
	KindConfig Kind = iota
	// KindIO covers file create/write failures for the PNG or IR outputs.
	KindIO
	// KindInvariant covers a failed post-stage sanity check. Always a bug.
	KindInvariant
	// KindCancelled covers cooperative cancellation via an abort flag.
	KindCancelled
	// KindResourceExhaustion covers a failed allocation for a W*H field.
	KindResourceExhaustion
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindIO:
		return "IOError"
	case KindInvariant:
		return "InvariantViolation"
	case KindCancelled:
		return "Cancelled"
	case KindResourceExhaustion:
		return "ResourceExhaustion"
	default:
		return "UnknownError"
	}
}

// ExitCode returns the process exit code documented for this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfig:
		return 2
	case KindIO:
		return 3
	case KindCancelled:
		return 4
	case KindInvariant, KindResourceExhaustion:
		return 5
	default:
		return 1
	}
}

// Error wraps an underlying cause with a Kind and a stage label.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a Error for the given kind, stage, and cause.
func New(kind Kind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// Configf builds a ConfigError with a formatted message.
func Configf(format string, args ...any) error {
	return New(KindConfig, "", fmt.Errorf(format, args...))
}

// Invariantf builds an InvariantViolation with a formatted message for the given stage.
func Invariantf(stage, format string, args ...any) error {
	return New(KindInvariant, stage, fmt.Errorf(format, args...))
}

// IOErrorf builds an IOError wrapping err for the given stage.
func IOErrorf(stage string, err error) error {
	return New(KindIO, stage, err)
}

// Cancelled builds a Cancelled error for the given stage.
func Cancelled(stage string) error {
	return New(KindCancelled, stage, errors.New("generation aborted"))
}

// ResourceExhausted builds a ResourceExhaustion error naming the field that failed to allocate.
func ResourceExhausted(field string, err error) error {
	return New(KindResourceExhaustion, field, err)
}

// KindOf extracts the Kind from err, defaulting to KindInvariant when err
// does not wrap a *Error (an un-kinded failure is treated as a bug).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInvariant
}
