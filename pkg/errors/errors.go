package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Recipe errors
	ErrRecipeParse   ErrorCode = "RECIPE_PARSE"
	ErrRecipeInvalid ErrorCode = "RECIPE_INVALID"
	ErrPatchNotFound ErrorCode = "PATCH_NOT_FOUND"

	// Download errors
	ErrNoNetwork     ErrorCode = "NO_NETWORK"
	ErrFetchFailed   ErrorCode = "FETCH_FAILED"
	ErrBadStatus     ErrorCode = "BAD_STATUS"
	ErrMissingSource ErrorCode = "MISSING_SOURCE"

	// Task errors
	ErrExtractFailed ErrorCode = "EXTRACT_FAILED"
	ErrCommandExec   ErrorCode = "COMMAND_EXEC"
	ErrRebootFailed  ErrorCode = "REBOOT_FAILED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// RgpatchError represents a structured error with code and details
type RgpatchError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RgpatchError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RgpatchError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RgpatchError) Is(target error) bool {
	var targetErr *RgpatchError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RgpatchError with the given code and message
func New(code ErrorCode, message string) *RgpatchError {
	return &RgpatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RgpatchError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RgpatchError {
	return &RgpatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RgpatchError
func Wrap(err error, code ErrorCode, message string) *RgpatchError {
	if err == nil {
		return nil
	}
	return &RgpatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RgpatchError {
	if err == nil {
		return nil
	}
	return &RgpatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RgpatchError) WithDetail(key string, value interface{}) *RgpatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rgErr *RgpatchError
	if errors.As(err, &rgErr) {
		return rgErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RgpatchError
func GetErrorCode(err error) ErrorCode {
	var rgErr *RgpatchError
	if errors.As(err, &rgErr) {
		return rgErr.Code
	}
	return ErrUnknown
}
