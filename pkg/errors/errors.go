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
	ErrTimeout      ErrorCode = "TIMEOUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigWrite ErrorCode = "CONFIG_WRITE"

	// Folder operation errors
	ErrAccess     ErrorCode = "ACCESS"
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrSymlink    ErrorCode = "SYMLINK"
	ErrBrokenLink ErrorCode = "BROKEN_LINK"

	// Archive errors
	ErrExtraction ErrorCode = "EXTRACTION"
	ErrBackup     ErrorCode = "BACKUP"

	// Mod metadata errors
	ErrNoMods        ErrorCode = "NO_MODS"
	ErrNoManifest    ErrorCode = "NO_MANIFEST"
	ErrNoLayout      ErrorCode = "NO_LAYOUT"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"
	ErrLayoutParse   ErrorCode = "LAYOUT_PARSE"

	// Simulator path errors
	ErrSimNotFound ErrorCode = "SIM_NOT_FOUND"
)

// HangarError represents a structured error with code and details
type HangarError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HangarError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HangarError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HangarError) Is(target error) bool {
	var targetErr *HangarError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HangarError with the given code and message
func New(code ErrorCode, message string) *HangarError {
	return &HangarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HangarError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HangarError {
	return &HangarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HangarError
func Wrap(err error, code ErrorCode, message string) *HangarError {
	if err == nil {
		return nil
	}
	return &HangarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HangarError {
	if err == nil {
		return nil
	}
	return &HangarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HangarError) WithDetail(key string, value interface{}) *HangarError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var hangarErr *HangarError
	if errors.As(err, &hangarErr) {
		return hangarErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HangarError
func GetErrorCode(err error) ErrorCode {
	var hangarErr *HangarError
	if errors.As(err, &hangarErr) {
		return hangarErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HangarError
func GetErrorDetails(err error) map[string]interface{} {
	var hangarErr *HangarError
	if errors.As(err, &hangarErr) {
		return hangarErr.Details
	}
	return nil
}
