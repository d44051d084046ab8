package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure so the client can react to it.
type Kind string

const (
	// KindNotFound referenced conversation/server/channel/message/room does not exist
	KindNotFound Kind = "not_found"
	// KindForbidden actor lacks membership or ownership for the mutation
	KindForbidden Kind = "forbidden"
	// KindConflict the mutation collides with existing state
	KindConflict Kind = "conflict"
	// KindInvalidState the target is not in a state that allows the mutation
	KindInvalidState Kind = "invalid_state"
)

// Error carries a Kind next to the message. Validation errors are returned
// synchronously to the calling command and never reach the event bus.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// E build an error of the given kind
func E(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Ef build an error of the given kind with formatting
func Ef(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotFound shorthand for E(KindNotFound, msg)
func NotFound(msg string) error { return E(KindNotFound, msg) }

// Forbidden shorthand for E(KindForbidden, msg)
func Forbidden(msg string) error { return E(KindForbidden, msg) }

// Conflict shorthand for E(KindConflict, msg)
func Conflict(msg string) error { return E(KindConflict, msg) }

// InvalidState shorthand for E(KindInvalidState, msg)
func InvalidState(msg string) error { return E(KindInvalidState, msg) }

// KindOf extracts the Kind from err, empty string when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
