package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the application error carried from repositories up to the HTTP layer.
// Notes:
// 1. Code is the business code; Code/100 is the HTTP status class (40400 -> 404)
// 2. Message is safe to show to clients
// 3. Err is the internal cause, logged but never serialized
// 4. Fields holds per-field messages for validation failures
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError is a single field validation message.
type FieldError struct {
	FieldName string `json:"field_name"`
	Message   string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so errors.Is(err, ErrIntegrity) holds for any
// conflict built by Conflict.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus maps the business code to an HTTP status.
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 || http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// WithMessage returns a copy with a different client message and the same code.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, Fields: e.Fields, Err: e.Err}
}

// New creates an AppError.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap converts a low level error (database, network) into an internal AppError.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// NotFound builds a resource-not-found error, e.g. NotFound("Id not found %d", id).
func NotFound(format string, args ...interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// Conflict wraps an integrity violation reported by the database.
func Conflict(err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: "Integrity violation",
		Err:     err,
	}
}

// Validation builds a validation error from field messages.
func Validation(fields ...FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Validation error",
		Fields:  fields,
	}
}

// =========================================
// Error codes
// =========================================
// Code/100 is the HTTP status:
// - 4xxxx: client errors
// - 5xxxx: server errors

const (
	// 50000-50099 system
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	// 40000-40099 business rules and malformed input
	ErrCodeBusinessError      = 40000
	ErrCodeInvalidParams      = 40001
	ErrCodeInvalidOrderStatus = 40002
	ErrCodeBindError          = 40010

	// 40100-40199 authentication
	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103

	// 40300-40399 authorization
	ErrCodeForbidden = 40300

	// 40400-40499 missing resources
	ErrCodeNotFound         = 40400
	ErrCodeUserNotFound     = 40401
	ErrCodeProductNotFound  = 40402
	ErrCodeOrderNotFound    = 40403
	ErrCodeCategoryNotFound = 40404
	ErrCodeMovieNotFound    = 40405
	ErrCodeCityNotFound     = 40406
	ErrCodeEventNotFound    = 40407

	// 40900-40999 conflicts
	ErrCodeConflict       = 40900
	ErrCodeDuplicateEntry = 40901

	// 42200-42299 validation
	ErrCodeValidation = 42200
)

// =========================================
// Predefined errors
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "Internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error")
	ErrRedisError    = New(ErrCodeRedisError, "Cache service error")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "Authentication required")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "Invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token expired")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "Bad credentials")
	ErrForbidden       = New(ErrCodeForbidden, "Access denied")

	ErrNotFound      = New(ErrCodeNotFound, "Entity not found")
	ErrIntegrity     = New(ErrCodeConflict, "Integrity violation")
	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Malformed request body")

	ErrInvalidOrderStatus = New(ErrCodeInvalidOrderStatus, "Order status does not allow this operation")
)

// =========================================
// Helpers
// =========================================

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError, wrapping anything else as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err belongs to the 404 class.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code/100 == http.StatusNotFound
}
