// Package errkind defines the error taxonomy shared across the engine:
// kinds, not class names, per spec.md §7. Every package that needs to
// report a recoverable-vs-fatal distinction wraps one of these.
package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// ClientError is a recoverable caller fault: bad position,
	// occupied space, insufficient resources, unknown game.
	ClientError Kind = iota
	// AuthError means the caller lacks authority over the target.
	AuthError
	// ConfigError means the template loader found unused or missing
	// keys; the offending entity is skipped, not the whole load.
	ConfigError
	// InvariantViolation is a caught state-corruption bug: the current
	// activation is abandoned and logged, the tick continues.
	InvariantViolation
	// TransportFailure means a subscriber send failed; it is dropped
	// silently and never surfaced to the caller.
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case ClientError:
		return "ClientError"
	case AuthError:
		return "AuthError"
	case ConfigError:
		return "ConfigError"
	case InvariantViolation:
		return "InvariantViolation"
	case TransportFailure:
		return "TransportFailure"
	default:
		return "UnknownError"
	}
}

// Error wraps a Kind with a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// New constructs an *Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given kind, unwrapping
// through the standard errors chain.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
