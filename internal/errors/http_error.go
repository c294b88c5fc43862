package errors

import (
	"errors"
	"net/http"
)

// Kind identifies the failure class independently of the HTTP status
// it maps to, so callers and tests can tell e.g. PastSlot apart from
// InvalidRange even though both answer 400.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindNotANutritionist  Kind = "not_a_nutritionist"
	KindNotFound          Kind = "not_found"
	KindInvalidRange      Kind = "invalid_range"
	KindPastSlot          Kind = "past_slot"
	KindConflictingSlot   Kind = "conflicting_slot"
	KindForbidden         Kind = "forbidden"
	KindSlotAlreadyBooked Kind = "slot_already_booked"
	KindUnauthorized      Kind = "unauthorized"
	KindEmailTaken        Kind = "email_taken"
	KindInternal          Kind = "internal"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given kind, code and message.
func NewHTTPError(kind Kind, code int, message string) *HTTPError {
	return &HTTPError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Helpers for the error kinds the scheduling core surfaces.
func InvalidInput(msg string) *HTTPError {
	return NewHTTPError(KindInvalidInput, http.StatusBadRequest, msg)
}

func NotANutritionist(msg string) *HTTPError {
	return NewHTTPError(KindNotANutritionist, http.StatusBadRequest, msg)
}

func NotFound(msg string) *HTTPError {
	return NewHTTPError(KindNotFound, http.StatusNotFound, msg)
}

func InvalidRange(msg string) *HTTPError {
	return NewHTTPError(KindInvalidRange, http.StatusBadRequest, msg)
}

func PastSlot(msg string) *HTTPError {
	return NewHTTPError(KindPastSlot, http.StatusBadRequest, msg)
}

func ConflictingSlot(msg string) *HTTPError {
	return NewHTTPError(KindConflictingSlot, http.StatusConflict, msg)
}

func Forbidden(msg string) *HTTPError {
	return NewHTTPError(KindForbidden, http.StatusForbidden, msg)
}

func SlotAlreadyBooked(msg string) *HTTPError {
	return NewHTTPError(KindSlotAlreadyBooked, http.StatusConflict, msg)
}

func Unauthorized(msg string) *HTTPError {
	return NewHTTPError(KindUnauthorized, http.StatusUnauthorized, msg)
}

func EmailTaken(msg string) *HTTPError {
	return NewHTTPError(KindEmailTaken, http.StatusConflict, msg)
}

func Internal(msg string) *HTTPError {
	return NewHTTPError(KindInternal, http.StatusInternalServerError, msg)
}

// From extracts the HTTPError from err, or wraps anything else as an
// internal error so the underlying message never leaks to the client.
func From(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return Internal("internal server error")
}
