package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error so transport can map it to an HTTP
// status without inspecting message text.
type Code string

const (
	// CodeInvalidInput marks caller-supplied input that violates a stated
	// constraint. Never retried automatically.
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound marks a requested id with no corresponding record.
	CodeNotFound Code = "not_found"
	// CodeUnavailable marks a failure of the remote store (network,
	// timeout, backend error). Backend internals never reach the caller.
	CodeUnavailable Code = "unavailable"
	// CodeInternal is the fallback for everything else.
	CodeInternal Code = "internal"
)

// DomainError carries a classification code alongside a user-facing
// message.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.cause }

// New creates a DomainError with the given code and user-facing message.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Wrap attaches a cause to a classified error. The cause is kept for
// logs; only Message is shown to users.
func Wrap(code Code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, cause: cause}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// MessageFor returns the user-facing message of a classified error, or a
// generic fallback for unclassified ones.
func MessageFor(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps an error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf extracts the code from an error, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
