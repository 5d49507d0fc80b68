// Package errors defines stable error codes for djlens failure modes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// RootNotFound indicates the project root or analysis directory does not exist
	RootNotFound ErrorCode = "ROOT_NOT_FOUND"
	// FileUnreadable indicates a candidate file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// ParseFailed indicates source parsing for name extraction failed
	ParseFailed ErrorCode = "PARSE_FAILED"
	// WriteFailed indicates the report could not be written to its sink
	WriteFailed ErrorCode = "WRITE_FAILED"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error without a cause.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error wrapping a cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the error code from err, or InternalError if it has none.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
