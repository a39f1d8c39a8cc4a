package clierr

import "errors"

// Type categorizes a CLI-facing error for consistent messaging & potential exit codes.
type Type string

const (
	Config     Type = "config"
	Auth       Type = "auth"
	IO         Type = "io"
	Validation Type = "validation"
	Internal   Type = "internal"
)

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// New constructs a new CLI Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }

// IsType reports whether err (or anything it wraps) is a CLI Error of the given type.
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}
