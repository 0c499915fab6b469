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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Strategy errors
	ErrStrategyNotFound ErrorCode = "STRATEGY_NOT_FOUND"
	ErrStrategyConfig   ErrorCode = "STRATEGY_CONFIG"
	ErrPatternInvalid   ErrorCode = "PATTERN_INVALID"

	// Merge input errors
	ErrFileParse ErrorCode = "FILE_PARSE"

	// Context errors
	ErrContextNotFound ErrorCode = "CONTEXT_NOT_FOUND"
	ErrContextParse    ErrorCode = "CONTEXT_PARSE"
	ErrContextMissing  ErrorCode = "CONTEXT_MISSING"

	// Template errors
	ErrTemplateInvalid ErrorCode = "TEMPLATE_INVALID"
	ErrTemplateRender  ErrorCode = "TEMPLATE_RENDER"

	// Git errors
	ErrGitMeta   ErrorCode = "GIT_META"
	ErrGitClone  ErrorCode = "GIT_CLONE"
	ErrGitCommit ErrorCode = "GIT_COMMIT"
	ErrGitPush   ErrorCode = "GIT_PUSH"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// RestampError represents a structured error with code and details
type RestampError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RestampError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RestampError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RestampError) Is(target error) bool {
	var targetErr *RestampError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RestampError with the given code and message
func New(code ErrorCode, message string) *RestampError {
	return &RestampError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RestampError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RestampError {
	return &RestampError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RestampError
func Wrap(err error, code ErrorCode, message string) *RestampError {
	if err == nil {
		return nil
	}
	return &RestampError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RestampError {
	if err == nil {
		return nil
	}
	return &RestampError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RestampError) WithDetail(key string, value interface{}) *RestampError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RestampError) WithDetails(details map[string]interface{}) *RestampError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var restampErr *RestampError
	if errors.As(err, &restampErr) {
		return restampErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RestampError
func GetErrorCode(err error) ErrorCode {
	var restampErr *RestampError
	if errors.As(err, &restampErr) {
		return restampErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RestampError
func GetErrorDetails(err error) map[string]interface{} {
	var restampErr *RestampError
	if errors.As(err, &restampErr) {
		return restampErr.Details
	}
	return nil
}
