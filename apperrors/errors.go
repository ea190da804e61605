// Package apperrors defines the error taxonomy shared by the services and the
// HTTP layer. Every failure that reaches a handler is turned into a status code
// and a JSON body of the form {message, errorCode, errors?}.
package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrorCode identifies a failure independently of its HTTP status.
type ErrorCode int

const (
	UserNotFound            ErrorCode = 1001
	UserAlreadyExists       ErrorCode = 1002
	IncorrectPassword       ErrorCode = 1003
	AddressNotFound         ErrorCode = 1004
	AddressDoesNotBelong    ErrorCode = 1005
	UnprocessableEntity     ErrorCode = 2001
	InternalException       ErrorCode = 3001
	UnauthorizedAccess      ErrorCode = 4001
	ProductNotFound         ErrorCode = 5001
	OrderNotFound           ErrorCode = 6001
	OrderTransactionFailed  ErrorCode = 6002
	InvalidStatusTransition ErrorCode = 6003
	CartItemNotFound        ErrorCode = 7001
	CartChanged             ErrorCode = 7002
)

// HTTPError is an error that knows how it should be reported to a client.
type HTTPError struct {
	StatusCode int       `json:"-"`
	Message    string    `json:"message"`
	ErrorCode  ErrorCode `json:"errorCode"`
	Errors     any       `json:"errors,omitempty"`

	cause error
}

func (e *HTTPError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.cause }

// WithCause records the underlying error without exposing it to the client.
func (e *HTTPError) WithCause(err error) *HTTPError {
	e.cause = err
	return e
}

// NotFound reports a referenced entity that does not exist.
func NotFound(message string, code ErrorCode) *HTTPError {
	return &HTTPError{StatusCode: http.StatusNotFound, Message: message, ErrorCode: code}
}

// Unauthorized reports a missing or invalid credential, or a role or ownership mismatch.
func Unauthorized(message string, code ErrorCode) *HTTPError {
	return &HTTPError{StatusCode: http.StatusUnauthorized, Message: message, ErrorCode: code}
}

// Conflict reports a write that collides with existing state.
func Conflict(message string, code ErrorCode) *HTTPError {
	return &HTTPError{StatusCode: http.StatusConflict, Message: message, ErrorCode: code}
}

// BadRequest reports a request that cannot be read at all.
func BadRequest(message string, code ErrorCode) *HTTPError {
	return &HTTPError{StatusCode: http.StatusBadRequest, Message: message, ErrorCode: code}
}

// Validation reports input with a malformed shape. errs carries per-field details.
func Validation(message string, errs any) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    message,
		ErrorCode:  UnprocessableEntity,
		Errors:     errs,
	}
}

// Internal wraps an unexpected failure. The cause is logged, never sent.
func Internal(code ErrorCode, err error) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Something went wrong",
		ErrorCode:  code,
		cause:      err,
	}
}

// From returns err as an *HTTPError, wrapping unknown errors as internal.
func From(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return Internal(InternalException, err)
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.ErrorCode == code
}

// Write sends err to the client. Server-side failures are logged through the
// request logger.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := From(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("code", int(httpErr.ErrorCode)).Msg("request failed")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.StatusCode)
	_ = json.NewEncoder(w).Encode(httpErr)
}
