package models

import (
	"errors"
	"fmt"
)

// Error codes shared by repositories, services and the HTTP layer.
const (
	CodeNotFound          = "notFound"
	CodeStallUnavailable  = "stallUnavailable"
	CodeConflict          = "conflict"
	CodeInvalidTransition = "invalidTransition"
	CodeCapacityExceeded  = "capacityExceeded"
	CodeInvalidCredential = "invalidCredential"
	CodeValidation        = "validation"
	CodeForbidden         = "forbidden"
	CodeUnauthorized      = "unauthorized"
)

// AppError is a typed domain error. Two AppErrors match under errors.Is when
// their codes are equal, so callers compare against the sentinels below.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound          = &AppError{Code: CodeNotFound}
	ErrStallUnavailable  = &AppError{Code: CodeStallUnavailable}
	ErrConflict          = &AppError{Code: CodeConflict}
	ErrInvalidTransition = &AppError{Code: CodeInvalidTransition}
	ErrCapacityExceeded  = &AppError{Code: CodeCapacityExceeded}
	ErrInvalidCredential = &AppError{Code: CodeInvalidCredential}
	ErrValidation        = &AppError{Code: CodeValidation}
	ErrForbidden         = &AppError{Code: CodeForbidden}
	ErrUnauthorized      = &AppError{Code: CodeUnauthorized}
)

// NewError builds an AppError with a formatted message.
func NewError(code, format string, args ...any) error {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode returns the code of the first AppError in err's chain, or "" if none.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
