package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable code. Message, when set, is what clients see
// instead of Err's text.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Newf builds an Error whose message is formatted like fmt.Errorf.
func Newf(status int, code, format string, args ...any) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}

func BadRequest(code, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Err: errors.New(msg)}
}

func NotFound(code, msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Err: errors.New(msg)}
}

func Forbidden(code, msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Err: errors.New(msg)}
}

func Unauthorized(code, msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Err: errors.New(msg)}
}

// Internal wraps err as a 500 without losing it for errors.Is/As.
func Internal(code string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: code, Err: err}
}

// InternalMsg is Internal with a client-facing message.
func InternalMsg(code, msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: code, Message: msg, Err: err}
}

// PublicMessage is the text safe to return to clients. 5xx errors without a Message
// collapse to the status text.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		if ae.Message != "" {
			return ae.Message
		}
		if ae.Status != 0 && ae.Status < http.StatusInternalServerError {
			return ae.Error()
		}
		if ae.Status >= http.StatusInternalServerError {
			return http.StatusText(ae.Status)
		}
	}
	return http.StatusText(http.StatusInternalServerError)
}

// StatusOf reports the HTTP status and code carried by err.
// Errors that are not *Error map to 500 "internal_error".
func StatusOf(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil && ae.Status != 0 {
		return ae.Status, ae.Code
	}
	return http.StatusInternalServerError, "internal_error"
}

// Is reports whether err carries the given HTTP status.
func Is(err error, status int) bool {
	s, _ := StatusOf(err)
	return err != nil && s == status
}
