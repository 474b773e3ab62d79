package qdrant

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call against the Qdrant REST API.
type ErrorKind string

const (
	KindInvalid     ErrorKind = "invalid"
	KindEncode      ErrorKind = "encode"
	KindDecode      ErrorKind = "decode"
	KindUnreachable ErrorKind = "unreachable"
	KindTimeout     ErrorKind = "timeout"
	KindRejected    ErrorKind = "rejected"
	KindMissing     ErrorKind = "missing"
)

type OperationError struct {
	Kind       ErrorKind
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

func (e *OperationError) Error() string {
	if e == nil {
		return "qdrant: operation failed"
	}
	head := fmt.Sprintf("qdrant %s: %s", e.Operation, e.Kind)
	if e.StatusCode != 0 {
		head = fmt.Sprintf("%s (http %d)", head, e.StatusCode)
	}
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", head, e.Message, e.Cause)
	case e.Message != "":
		return head + ": " + e.Message
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", head, e.Cause)
	}
	return head
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Unavailable reports whether the failure came from Qdrant being down or overloaded
// rather than from the request itself.
func (e *OperationError) Unavailable() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindUnreachable, KindTimeout:
		return true
	case KindRejected:
		return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsUnavailable unwraps err looking for an OperationError that reports Unavailable.
func IsUnavailable(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe) && oe.Unavailable()
}

func opErr(op string, kind ErrorKind, msg string, cause error) error {
	return &OperationError{
		Kind:      kind,
		Operation: op,
		Message:   msg,
		Cause:     cause,
	}
}
