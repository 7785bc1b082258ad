package generation

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a generation call produced no text
type ErrorKind int

const (
	// Unavailable means no provider is configured (for example a missing API key)
	Unavailable ErrorKind = iota
	// Exhausted means every retry attempt failed
	Exhausted
	// Timeout means the last attempt hit the per-call deadline
	Timeout
	// Empty means the provider answered with blank text on every attempt
	Empty
)

func (k ErrorKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case Exhausted:
		return "exhausted"
	case Timeout:
		return "timeout"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by Adapter.Generate when no usable text was produced
type Error struct {
	Kind     ErrorKind
	Attempts int
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation %s after %d attempt(s): %v", e.Kind, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("generation %s after %d attempt(s)", e.Kind, e.Attempts)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a generation Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind == kind
	}
	return false
}
