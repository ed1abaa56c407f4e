package postvault

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be branched on by callers: the HTTP layer maps them to
// status codes and the CLI prints their messages directly.
const (
	ECONFLICT     = "conflict"       // action conflicts with current state
	EINTERNAL     = "internal"       // internal error
	EINVALID      = "invalid"        // validation failed
	ENOTFOUND     = "not_found"      // entity does not exist
	EQUOTA        = "quota_exceeded" // rolling save quota exhausted
	ERATELIMIT    = "rate_limited"   // too many requests in the current window
	EUNAUTHORIZED = "unauthorized"   // missing or unrecognized credential
)

// Error represents an application-specific error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Code is one of the application error codes above.
	Code string

	// Message is a human-readable description safe to show to end users.
	Message string
}

// Error implements the error interface. Not meant for end users; see Message.
func (e *Error) Error() string {
	return fmt.Sprintf("postvault error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
