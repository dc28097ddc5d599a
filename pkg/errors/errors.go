// Package errors provides structured error types for confctl.
package errors

import (
	"fmt"
)

// ErrorCode identifies specific error conditions
type ErrorCode string

const (
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeTypeConflict    ErrorCode = "TYPE_CONFLICT"
	ErrCodeMissingMergeKey ErrorCode = "MISSING_MERGE_KEY"
	ErrCodeDepthExceeded   ErrorCode = "DEPTH_EXCEEDED"
	ErrCodeParse           ErrorCode = "PARSE_ERROR"
	ErrCodeSerialize       ErrorCode = "SERIALIZE_ERROR"
	ErrCodeBackend         ErrorCode = "BACKEND_ERROR"
)

// Error is the base error type for confctl
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Wrap creates a new error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Details: make(map[string]interface{}),
	}
}

// WithDetails adds details to an error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail adds a single detail to an error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.Details[key] = value
	return e
}

// ValidationError creates a validation error
func ValidationError(message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: message,
		Details: details,
	}
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", resourceType, name),
		Details: map[string]interface{}{
			"resource_type": resourceType,
			"name":          name,
		},
	}
}

// TypeConflictError creates an error for incompatible value types meeting at
// a merge path.
func TypeConflictError(path, baseKind, overlayKind string) *Error {
	return &Error{
		Code:    ErrCodeTypeConflict,
		Message: fmt.Sprintf("cannot merge %s into %s at %s", overlayKind, baseKind, path),
		Details: map[string]interface{}{
			"path":         path,
			"base_kind":    baseKind,
			"overlay_kind": overlayKind,
		},
	}
}

// MissingMergeKeyError creates an error for a list element that lacks the
// configured merge key.
func MissingMergeKeyError(path, mergeKey, elementKind string) *Error {
	return &Error{
		Code:    ErrCodeMissingMergeKey,
		Message: fmt.Sprintf("element at %s has no merge key %q", path, mergeKey),
		Details: map[string]interface{}{
			"path":         path,
			"merge_key":    mergeKey,
			"element_kind": elementKind,
		},
	}
}

// DepthExceededError creates an error for documents nested beyond the
// configured recursion limit.
func DepthExceededError(path string, maxDepth int) *Error {
	return &Error{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("maximum merge depth %d exceeded at %s", maxDepth, path),
		Details: map[string]interface{}{
			"path":      path,
			"max_depth": maxDepth,
		},
	}
}

// ParseError creates a parse error
func ParseError(source string, err error) *Error {
	return &Error{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("failed to parse %s", source),
		Cause:   err,
		Details: map[string]interface{}{
			"source": source,
		},
	}
}

// SerializeError creates a serialization error
func SerializeError(format string, err error) *Error {
	return &Error{
		Code:    ErrCodeSerialize,
		Message: fmt.Sprintf("failed to serialize document as %s", format),
		Cause:   err,
		Details: map[string]interface{}{
			"format": format,
		},
	}
}

// BackendError creates a backend error
func BackendError(backend string, operation string, err error) *Error {
	return &Error{
		Code:    ErrCodeBackend,
		Message: fmt.Sprintf("backend %s failed during %s", backend, operation),
		Cause:   err,
		Details: map[string]interface{}{
			"backend":   backend,
			"operation": operation,
		},
	}
}

// Is checks if the error matches the given code
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
