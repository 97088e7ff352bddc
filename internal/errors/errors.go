// Package errors provides the unified error taxonomy for promptsmith.
//
// SYSTEM ARCHITECTURE ROLE:
// Every operation in the generation core returns a value; failures are
// represented as tagged AppError values instead of panics, and the only
// places native faults are caught and converted are the filesystem and
// rendering boundaries.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes for template selection, loading,
//   variable validation and prompt generation failures
// - Provide the structured AppError type with severity, category and context
// - Classify which failures are retryable for the service retry loop
//
// INTEGRATION POINTS:
// - internal/models: identifier factories return EMPTY_INPUT/INVALID_FORMAT/TOO_LONG
// - internal/validation: path validator returns INVALID_PATH/NOT_FOUND/NOT_FILE/NOT_DIRECTORY
// - internal/storage: repository load failures become TEMPLATE_LOADING_FAILED
// - internal/generation: service maps AppErrors into response/CommandResult shapes
// - internal/commands: ErrorInfo is populated from AppError fields
//
// USAGE PATTERNS:
// - Create errors: use constructor functions like SelectionError(), LoadError()
// - Wrap errors: use Wrap() to add context to boundary faults
// - Check codes: use HasCode() or GetAppError() for programmatic branching
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Identifier validation errors
	ErrCodeEmptyInput    ErrorCode = "EMPTY_INPUT"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeTooLong       ErrorCode = "TOO_LONG"

	// Path validation errors
	ErrCodeInvalidPath  ErrorCode = "INVALID_PATH"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeNotFile      ErrorCode = "NOT_FILE"
	ErrCodeNotDirectory ErrorCode = "NOT_DIRECTORY"

	// Generation pipeline errors
	ErrCodeConfigurationInvalid      ErrorCode = "CONFIGURATION_INVALID"
	ErrCodeTemplateSelectionFailed   ErrorCode = "TEMPLATE_SELECTION_FAILED"
	ErrCodeTemplateLoadingFailed     ErrorCode = "TEMPLATE_LOADING_FAILED"
	ErrCodeVariableValidationFailed  ErrorCode = "VARIABLE_VALIDATION_FAILED"
	ErrCodePromptGenerationFailed    ErrorCode = "PROMPT_GENERATION_FAILED"

	// System errors
	ErrCodeTimeout       ErrorCode = "TIMEOUT"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategorySelection     ErrorCategory = "selection"
	CategoryStorage       ErrorCategory = "storage"
	CategoryGeneration    ErrorCategory = "generation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategorySystem        ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause.Error())
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Cause:     err,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeEmptyInput, ErrCodeInvalidFormat, ErrCodeTooLong,
		ErrCodeInvalidPath, ErrCodeVariableValidationFailed:
		return CategoryValidation, SeverityWarning

	case ErrCodeNotFound, ErrCodeNotFile, ErrCodeNotDirectory:
		return CategoryStorage, SeverityInfo

	case ErrCodeTemplateSelectionFailed:
		return CategorySelection, SeverityError
	case ErrCodeTemplateLoadingFailed:
		return CategoryStorage, SeverityError
	case ErrCodePromptGenerationFailed:
		return CategoryGeneration, SeverityError

	case ErrCodeConfigurationInvalid:
		return CategoryConfiguration, SeverityCritical
	case ErrCodeTimeout:
		return CategorySystem, SeverityError
	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical

	default:
		return CategorySystem, SeverityError
	}
}

// isRetryable determines if an error is retryable based on its code
func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeTimeout, ErrCodePromptGenerationFailed:
		return true
	default:
		return false
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Common error constructors for frequently used errors

func EmptyInputError(field string) *AppError {
	return NewAppError(ErrCodeEmptyInput, fmt.Sprintf("%s must not be empty", field))
}

func InvalidFormatError(field, value string) *AppError {
	return NewAppError(ErrCodeInvalidFormat, fmt.Sprintf("%s has invalid format", field)).
		WithContext("value", value)
}

func TooLongError(field string, max int) *AppError {
	return NewAppError(ErrCodeTooLong, fmt.Sprintf("%s exceeds %d characters", field, max))
}

func ConfigurationError(message string) *AppError {
	return NewAppError(ErrCodeConfigurationInvalid, message)
}

func SelectionError(message string) *AppError {
	return NewAppError(ErrCodeTemplateSelectionFailed, message)
}

func LoadError(path string, err error) *AppError {
	return Wrap(err, ErrCodeTemplateLoadingFailed, fmt.Sprintf("Template not found or unreadable: %s", path))
}

// ValidationFailedError aggregates per-field validation messages into a
// single VARIABLE_VALIDATION_FAILED error.
func ValidationFailedError(fieldErrors []string) *AppError {
	appErr := NewAppError(ErrCodeVariableValidationFailed, "Variable validation failed")
	if len(fieldErrors) > 0 {
		appErr.WithDetails(strings.Join(fieldErrors, "; "))
		appErr.WithContext("field_errors", fieldErrors)
	}
	return appErr
}

func GenerationError(err error) *AppError {
	return Wrap(err, ErrCodePromptGenerationFailed, "Prompt generation failed")
}

func InvalidPathError(path, reason string) *AppError {
	return NewAppError(ErrCodeInvalidPath, fmt.Sprintf("Invalid path %q: %s", path, reason))
}

func NotFoundError(label, path string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", label, path))
}
