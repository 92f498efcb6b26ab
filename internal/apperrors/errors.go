package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

// Sentinel kinds. Match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("not permitted")
	ErrUnauthorized = errors.New("not authenticated")
	ErrConflict     = errors.New("already exists")
	ErrStorage      = errors.New("storage failure")
	ErrDelivery     = errors.New("live delivery failed")
)

// ErrorMap translates a sentinel kind into the HTTP status rendered to clients.
var ErrorMap = map[error]int{
	ErrValidation:   http.StatusBadRequest,
	ErrNotFound:     http.StatusNotFound,
	ErrForbidden:    http.StatusForbidden,
	ErrUnauthorized: http.StatusUnauthorized,
	ErrConflict:     http.StatusConflict,
	ErrStorage:      http.StatusInternalServerError,
	ErrDelivery:     http.StatusInternalServerError,
}

const genericStorageMessage = "Something went wrong, please try again later"

// Error pairs a sentinel kind with the message shown to the client.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Cause returns the underlying driver error, if any.
func (e *Error) Cause() error { return e.cause }

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }

// Storage wraps a persistence failure. The client only ever sees a generic message.
func Storage(err error, op string) error {
	return &Error{Kind: ErrStorage, Message: genericStorageMessage, cause: errors.Wrap(err, op)}
}

// Delivery wraps a transport send failure.
func Delivery(err error) error {
	return &Error{Kind: ErrDelivery, Message: "live delivery failed", cause: err}
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	for kind, status := range ErrorMap {
		if errors.Is(err, kind) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return genericStorageMessage
}

// IsStorage reports whether err is a persistence failure that should be logged.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
