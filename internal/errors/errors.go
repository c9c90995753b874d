// Package errors provides structured error handling for wifiscout operations.
// It defines error codes, error types for the scan/connect/discovery paths,
// and utilities for classifying errors as recoverable or fatal.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeCanceled      ErrorCode = "CANCELED"

	// Parsing errors.
	CodeParse ErrorCode = "PARSE"

	// Tool invocation errors.
	CodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	CodeToolFailed      ErrorCode = "TOOL_FAILED"

	// Connection and discovery errors.
	CodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	CodeAddressFailed    ErrorCode = "ADDRESS_FAILED"
	CodeDiscoveryFailed  ErrorCode = "DISCOVERY_FAILED"
)

// ParseError reports a single malformed record in otherwise parseable tool
// output. It names the field that failed so the record can be skipped and
// counted without discarding the rest of the batch.
type ParseError struct {
	Field string
	Value string
	Line  string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("[%s] malformed %s: %q", CodeParse, e.Field, e.Value)
	}
	return fmt.Sprintf("[%s] malformed %s", CodeParse, e.Field)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a parse error for a specific field and value.
func NewParseError(field, value string) *ParseError {
	return &ParseError{Field: field, Value: value}
}

// WrapParseError wraps a lower-level error as a parse error.
func WrapParseError(field, value string, err error) *ParseError {
	return &ParseError{Field: field, Value: value, Cause: err}
}

// ToolError represents a failure to invoke an external tool: the binary is
// missing, exited non-zero, or exceeded its timeout budget.
type ToolError struct {
	Code  ErrorCode
	Tool  string
	Args  string
	Cause error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Args != "" {
		return fmt.Sprintf("[%s] %s %s", e.Code, e.Tool, e.Args)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Tool)
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// NewToolUnavailable creates an error for a missing or non-executable binary.
func NewToolUnavailable(tool string) *ToolError {
	return &ToolError{Code: CodeToolUnavailable, Tool: tool}
}

// NewToolTimeout creates an error for a tool that exceeded its budget.
func NewToolTimeout(tool, args string) *ToolError {
	return &ToolError{Code: CodeTimeout, Tool: tool, Args: args}
}

// WrapToolError wraps an exec failure with the tool that produced it.
func WrapToolError(tool, args string, err error) *ToolError {
	return &ToolError{Code: CodeToolFailed, Tool: tool, Args: args, Cause: err}
}

// DiscoveryError represents a device discovery method failure.
type DiscoveryError struct {
	Code    ErrorCode
	Message string
	Method  string
	Cause   error
}

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("[%s] %s (method: %s)", e.Code, e.Message, e.Method)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// NewDiscoveryError creates a new discovery error for a method.
func NewDiscoveryError(method, message string) *DiscoveryError {
	return &DiscoveryError{Code: CodeDiscoveryFailed, Message: message, Method: method}
}

// WrapDiscoveryError wraps an existing error as a discovery error.
func WrapDiscoveryError(method, message string, err error) *DiscoveryError {
	return &DiscoveryError{Code: CodeDiscoveryFailed, Message: message, Method: method, Cause: err}
}

// ValidationError represents a malformed MAC, frequency or signal value.
// Records carrying one are dropped with a logged reason, never coerced.
type ValidationError struct {
	Field string
	Value interface{}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] invalid %s: %v", CodeValidation, e.Field, e.Value)
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Value: value}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(message, field string, value interface{}) *ConfigError {
	return &ConfigError{Code: CodeConfiguration, Message: message, Field: field, Value: value}
}

// Utility functions for common error operations

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *ParseError:
		return CodeParse
	case *ToolError:
		return e.Code
	case *DiscoveryError:
		return e.Code
	case *ValidationError:
		return CodeValidation
	case *ConfigError:
		return e.Code
	}
	return CodeUnknown
}

// IsRecoverable determines whether an error may be absorbed as per-record or
// per-method data rather than aborting the whole operation.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case CodeParse, CodeValidation, CodeTimeout, CodeToolFailed, CodeDiscoveryFailed:
		return true
	default:
		return false
	}
}

// IsFatal determines if an error must stop the current invocation. Only the
// absence of a mandatory tool or a broken configuration qualifies.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodeToolUnavailable, CodeConfiguration:
		return true
	default:
		return false
	}
}
