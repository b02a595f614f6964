package newsdigest

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFIG       = "config"
	EFETCH        = "fetch"
	EFORBIDDEN    = "forbidden"
	EINSUFFICIENT = "insufficient"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EUPSTREAM     = "upstream"
)

// Error represents an application-specific error. Status carries the HTTP
// status of a remote party (origin server or model API) when there is one.
type Error struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("newsdigest error: code=%s status=%d message=%s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("newsdigest error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// StatusErrorf is like Errorf but records the remote HTTP status.
func StatusErrorf(code string, status int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
	}
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
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorStatus returns the remote HTTP status recorded on an application
// error, or 0.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
