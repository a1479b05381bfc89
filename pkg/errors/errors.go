package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")

	// OTP verification flow.
	ErrInvalidEmail    = New("INVALID_EMAIL", http.StatusBadRequest, "please use your valid college email address")
	ErrSendFailed      = New("SEND_FAILED", http.StatusInternalServerError, "failed to send OTP")
	ErrNoChallenge     = New("NO_CHALLENGE", http.StatusBadRequest, "no OTP found for this email")
	ErrOTPExpired      = New("OTP_EXPIRED", http.StatusBadRequest, "OTP expired")
	ErrTooManyAttempts = New("TOO_MANY_ATTEMPTS", http.StatusBadRequest, "too many attempts, please request a new OTP")
	ErrInvalidCode     = New("INVALID_CODE", http.StatusBadRequest, "invalid OTP")

	// Feedback intake.
	ErrMissingRoll      = New("MISSING_ROLL", http.StatusBadRequest, "missing roll")
	ErrAlreadySubmitted = New("ALREADY_SUBMITTED", http.StatusConflict, "feedback already submitted for this roll")
	ErrInsertFailed     = New("INSERT_FAILED", http.StatusInternalServerError, "failed to store feedback")

	// ErrDuplicateKey marks a storage-level uniqueness violation.
	ErrDuplicateKey = New("DUPLICATE_KEY", http.StatusConflict, "duplicate key")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == target.Code
	}
	return false
}
