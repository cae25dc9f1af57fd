// Package errors defines the service error taxonomy shared by the store,
// auth and HTTP layers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of service error.
type ErrorCode string

const (
	CodeTransientStore ErrorCode = "TRANSIENT_STORE"
	CodeSerialization  ErrorCode = "SERIALIZATION"
	CodeValidation     ErrorCode = "VALIDATION"
	CodeBackupNotFound ErrorCode = "BACKUP_NOT_FOUND"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken   ErrorCode = "INVALID_TOKEN"
	CodeRateLimited    ErrorCode = "RATE_LIMITED"
	CodeInternal       ErrorCode = "INTERNAL"
)

// ServiceError carries an error code, a user-facing message and the HTTP
// status the API layer should respond with.
type ServiceError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	cause      error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// WithDetails attaches a key/value pair to the error and returns it.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newError(code ErrorCode, message string, status int, cause error) *ServiceError {
	return &ServiceError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		cause:      cause,
	}
}

// TransientStore marks a backend tier as unreachable or errored. The tiered
// adapter logs these and falls through to the next tier; callers only see one
// when every tier has failed.
func TransientStore(message string, cause error) *ServiceError {
	return newError(CodeTransientStore, message, http.StatusServiceUnavailable, cause)
}

// Serialization marks a stored payload that failed to decode. Reads treat it
// as not-found and return the caller default.
func Serialization(message string, cause error) *ServiceError {
	return newError(CodeSerialization, message, http.StatusInternalServerError, cause)
}

// Validation marks rejected caller input.
func Validation(message string) *ServiceError {
	return newError(CodeValidation, message, http.StatusBadRequest, nil)
}

// BackupNotFound marks a restore request for a snapshot that does not exist.
func BackupNotFound(id string) *ServiceError {
	return newError(CodeBackupNotFound, fmt.Sprintf("backup %s not found", id), http.StatusNotFound, nil)
}

// NotFound marks a missing entity.
func NotFound(message string) *ServiceError {
	return newError(CodeNotFound, message, http.StatusNotFound, nil)
}

// AlreadyExists marks a uniqueness conflict.
func AlreadyExists(message string) *ServiceError {
	return newError(CodeAlreadyExists, message, http.StatusConflict, nil)
}

// Unauthorized marks a request without valid credentials.
func Unauthorized(message string) *ServiceError {
	return newError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// InvalidToken marks a bearer token that failed verification.
func InvalidToken(cause error) *ServiceError {
	return newError(CodeInvalidToken, "invalid token", http.StatusUnauthorized, cause)
}

// RateLimited marks a request rejected by the rate limiter.
func RateLimited(limit int, window string) *ServiceError {
	e := newError(CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests, nil)
	return e.WithDetails("limit", limit).WithDetails("window", window)
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *ServiceError {
	return newError(CodeInternal, message, http.StatusInternalServerError, cause)
}

// GetServiceError returns the *ServiceError in err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	se := GetServiceError(err)
	return se != nil && se.Code == code
}
