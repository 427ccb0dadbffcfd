package errorx

import (
	"fmt"

	"github.com/pkg/errors"
)

// BizError is an error with a business code and a user-facing message.
type BizError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *BizError) Error() string {
	return fmt.Sprintf("BizError: code=%d, message=%s", e.Code, e.Message)
}

func (e *BizError) GetCode() int {
	return e.Code
}

func (e *BizError) GetMessage() string {
	return e.Message
}

// New creates an error with the default message of code.
func New(code int) *BizError {
	return &BizError{
		Code:    code,
		Message: GetMessage(code),
	}
}

// NewWithMessage creates an error with a custom message.
func NewWithMessage(code int, message string) *BizError {
	return &BizError{
		Code:    code,
		Message: message,
	}
}

// Is reports whether err is a BizError with code.
func Is(err error, code int) bool {
	if err == nil {
		return false
	}
	var bizErr *BizError
	if errors.As(err, &bizErr) {
		return bizErr.Code == code
	}
	return false
}

// FromError converts err to a BizError. Anything that is not already a
// BizError becomes an internal error; the details stay in the logs.
func FromError(err error) *BizError {
	if err == nil {
		return nil
	}

	if bizErr, ok := errors.Cause(err).(*BizError); ok {
		return bizErr
	}
	var bizErr *BizError
	if errors.As(err, &bizErr) {
		return bizErr
	}

	return New(CodeInternalError)
}

// ============ shortcuts ============

func ErrInternalError() *BizError {
	return New(CodeInternalError)
}

// ErrInvalidParams uses msg when non-empty.
func ErrInvalidParams(msg string) *BizError {
	if msg == "" {
		return New(CodeInvalidParams)
	}
	return NewWithMessage(CodeInvalidParams, msg)
}

func ErrUnauthorized() *BizError {
	return New(CodeUnauthorized)
}

func ErrForbidden() *BizError {
	return New(CodeForbidden)
}

func ErrTooManyRequests() *BizError {
	return New(CodeTooManyRequests)
}

func ErrServiceUnavailable() *BizError {
	return New(CodeServiceUnavailable)
}
