package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors: reported to the caller, no side effects performed.
	ErrCodeValidationMissingFields ErrorCode = "VALIDATION_MISSING_FIELDS"
	ErrCodeValidationInvalidNumber ErrorCode = "VALIDATION_INVALID_NUMBER"

	// Persistence errors. An application insert failure is fatal to the
	// submission; file record failures are absorbed by the caller.
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"

	// File repository errors, never fatal to the batch.
	ErrCodeFileWriteFailed    ErrorCode = "FILE_WRITE_FAILED"
	ErrCodeFileTypeNotAllowed ErrorCode = "FILE_TYPE_NOT_ALLOWED"

	// Notification errors, surfaced only as informational detail.
	ErrCodeNotificationNotConfigured ErrorCode = "NOTIFICATION_NOT_CONFIGURED"
	ErrCodeNotificationSendFailed    ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSMTPAuthFailed            ErrorCode = "SMTP_AUTH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal when err is
// not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// DetailsOf extracts operator-facing details from err. Falls back to the
// plain error text.
func DetailsOf(err error) string {
	var se *StandardError
	if stderrors.As(err, &se) {
		if se.Details != "" {
			return se.Details
		}
		return se.Message
	}
	return err.Error()
}

// NewMissingFieldsError creates a non-retryable validation error listing
// every required field absent from the submission.
func NewMissingFieldsError(fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationMissingFields,
		Message:   "Missing required fields",
		Details:   fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidNumberError creates a non-retryable validation error for a
// declared-numeric field that did not parse.
func NewInvalidNumberError(field, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationInvalidNumber,
		Message:   "Invalid number format",
		Details:   fmt.Sprintf("field %s: invalid number format: %q", field, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable storage error.
func NewDatabaseInsertFailedError(entity string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   fmt.Sprintf("Failed to save %s to database", entity),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable read error.
func NewDatabaseQueryFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query error",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileWriteFailedError creates a non-retryable file storage error.
func NewFileWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileWriteFailed,
		Message:   "Failed to write uploaded file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationNotConfiguredError marks a skipped notification attempt.
func NewNotificationNotConfiguredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationNotConfigured,
		Message:   "Email notifications are not configured",
		Details:   "set email.from, email.smtp.password and email.recipient",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable transport error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send notification email",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSMTPAuthFailedError creates a non-retryable authentication error with
// remediation hints for the operator.
func NewSMTPAuthFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSMTPAuthFailed,
		Message:   "SMTP authentication failed",
		Details:   err.Error() + " (use an app password, not the account password; enable 2FA on the sender account)",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unanticipated failure caught at the outermost
// orchestration boundary.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "An unexpected error occurred",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
