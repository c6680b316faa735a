package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound      = NewError(ErrCodeNotFound, "user not found")
	ErrClientNotFound    = NewError(ErrCodeNotFound, "client not found")
	ErrCaseNotFound      = NewError(ErrCodeNotFound, "case not found")
	ErrDocumentNotFound  = NewError(ErrCodeNotFound, "document not found")
	ErrTaskNotFound      = NewError(ErrCodeNotFound, "task not found")
	ErrTimeEntryNotFound = NewError(ErrCodeNotFound, "time entry not found")
	ErrTemplateNotFound  = NewError(ErrCodeNotFound, "template not found")
	ErrFeeNotFound       = NewError(ErrCodeNotFound, "fee not found")
	ErrExpenseNotFound   = NewError(ErrCodeNotFound, "expense not found")
	ErrInvoiceNotFound   = NewError(ErrCodeNotFound, "invoice not found")
	ErrPaymentNotFound   = NewError(ErrCodeNotFound, "payment not found")
	ErrSessionNotFound   = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized      = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload    = NewError(ErrCodeInvalid, "invalid payload")
	ErrDuplicateDocument = NewError(ErrCodeConflict, "cpf/cnpj already registered")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
