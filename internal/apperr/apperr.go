package apperr

import (
	"errors"
	"fmt"
)

// Code represents a stable error code for programmatic handling.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeForbidden          Code = "forbidden"
	CodeUnauthorized       Code = "unauthorized"
	CodeEmailTaken         Code = "email_taken"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeWrongProvider      Code = "wrong_provider"
	CodeInvalid            Code = "invalid"
	CodeUnsupportedMedia   Code = "unsupported_media"
	CodeUpstream           Code = "upstream"
	CodeInternal           Code = "internal"
)

var (
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrForbidden          = New(CodeForbidden, "not authorized to modify this resource")
	ErrUnauthorized       = New(CodeUnauthorized, "Could not validate credentials")
	ErrEmailTaken         = New(CodeEmailTaken, "Email already registered")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password")
	ErrWrongProvider      = New(CodeWrongProvider, "This account was registered with Google. Please use Google login.")
)

// Error is a structured error carrying a code, a client-safe message and an
// optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so callers can compare against
// the package sentinels regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
