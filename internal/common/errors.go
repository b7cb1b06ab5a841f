package common

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeConfig   = "CONFIG_ERROR"
	CodeInput    = "INPUT_ERROR"
	CodeDatabase = "DATABASE_ERROR"
)

// Sentinel errors; every failure the pipeline reports wraps one of these.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrParse          = errors.New("malformed input record")
	ErrValidation     = errors.New("validation failed")
	ErrSchemaMismatch = errors.New("row does not match table schema")
	ErrDatabase       = errors.New("database error")
)

// AppError is a coded error for failures surfaced to the operator.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same code, so callers can test
// errors.Is(err, &AppError{Code: CodeConfig}).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WrapError prefixes err with message, keeping it matchable with errors.Is.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
