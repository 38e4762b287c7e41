package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError carries a machine-readable code alongside the human message.
// Fields holds per-field validation detail for VALIDATION errors.
type AppError struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Cause   error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Validation(fields map[string]string) error {
	return &AppError{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

func FieldError(field, message string) error {
	return &AppError{Code: CodeValidation, Message: message, Fields: map[string]string{field: message}}
}

func Forbidden(msg string) error {
	return New(CodeForbidden, msg)
}

func Blocked(msg string) error {
	return New(CodeBlocked, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func InvalidOperation(msg string) error {
	return New(CodeInvalidOperation, msg)
}

func Malformed(msg string) error {
	return New(CodeMalformedRequest, msg)
}

func Unauthenticated(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Internal(msg string, cause error) error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf extracts the code of an error, defaulting to INTERNAL for
// anything that is not an AppError.
func CodeOf(err error) Code {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// FieldsOf returns field-level detail when present.
func FieldsOf(err error) map[string]string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
