// Package errors defines the structured error type returned by the
// backend client and the helpers stores use to turn any error into the
// message they keep as lastError.
package errors

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	// CodeBackendRejected marks an envelope with success=false.
	CodeBackendRejected = "BACKEND_REJECTED"
	// CodeTransport marks a network failure or timeout.
	CodeTransport = "TRANSPORT"
	// CodeHTTPStatus marks a non-2xx response without a JSON envelope.
	CodeHTTPStatus = "HTTP_STATUS"
	// CodeDecode marks a response body that could not be decoded.
	CodeDecode = "DECODE"
	// CodeWSLMode marks a file dialog unavailable on the backend host.
	CodeWSLMode = "WSL_MODE"
	// CodeNoPath marks a manual path prompt left empty.
	CodeNoPath = "NO_PATH"
	// CodeInvalidPath marks a manual path rejected by its validator.
	CodeInvalidPath = "INVALID_PATH"
)

// UnknownError is the message used when the backend gives no reason.
const UnknownError = "Erreur inconnue"

// AppError is a structured error with a machine-readable code.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Endpoint   string
	Err        error
}

func (e *AppError) Error() string {
	prefix := e.Code
	if e.Endpoint != "" {
		prefix = e.Code + " " + e.Endpoint
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps err into an AppError.
func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithEndpoint records which call failed.
func (e *AppError) WithEndpoint(endpoint string) *AppError {
	if e == nil {
		return nil
	}
	e.Endpoint = endpoint
	return e
}

// WithStatus records the HTTP status of the failed call.
func (e *AppError) WithStatus(status int) *AppError {
	if e == nil {
		return nil
	}
	e.HTTPStatus = status
	return e
}

// Rejected builds the error for a backend envelope with success=false.
func Rejected(message string) *AppError {
	if message == "" {
		message = UnknownError
	}
	return New(CodeBackendRejected, message)
}

// IsAppError reports whether err carries an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// MessageOf returns the text a store shows for err.
//
// Backend rejections yield the backend's own message. Wrapped failures
// yield the cause's message. Anything else yields err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			return appErr.Err.Error()
		}
		if appErr.Message != "" {
			return appErr.Message
		}
		return UnknownError
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownError
}
