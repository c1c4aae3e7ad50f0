package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeStorage       = "STORAGE_ERROR"
)

// NoIndex marks a ValidationError that does not refer to a single exercise.
const NoIndex = -1

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports a missing or unusable setting, e.g. an absent API credential.
type ConfigurationError struct {
	*AppError
	Setting string
}

func NewConfigurationError(message, setting string) *ConfigurationError {
	return &ConfigurationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeConfiguration,
			StatusCode: 503,
			Context: map[string]any{
				"setting": setting,
			},
		},
		Setting: setting,
	}
}

// UpstreamError wraps a transport or HTTP failure talking to an external service.
type UpstreamError struct {
	*AppError
	Service string
}

func NewUpstreamError(message, service string, statusCode int, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeUpstream,
			StatusCode: statusCode,
			Context: map[string]any{
				"service": service,
			},
			Cause: cause,
		},
		Service: service,
	}
}

// ValidationError reports the first field that failed validation.
// Index is the offending exercise position, or NoIndex.
type ValidationError struct {
	*AppError
	Field string
	Index int
	Raw   string
}

func NewValidationError(message, field string, index int) *ValidationError {
	ctx := map[string]any{
		"field": field,
	}
	if index != NoIndex {
		ctx["index"] = index
	}

	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context:    ctx,
		},
		Field: field,
		Index: index,
	}
}

// NewParseError builds a ValidationError for model output that is not valid JSON.
func NewParseError(raw string, cause error) *ValidationError {
	err := NewValidationError("invalid response format from model", "response", NoIndex)
	err.Raw = raw
	err.Cause = cause
	err.StatusCode = 502
	return err
}

type NotFoundError struct {
	*AppError
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s not found", resource),
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
				"key":      key,
			},
		},
		Resource: resource,
		Key:      key,
	}
}

type StorageError struct {
	*AppError
	Operation string
	Key       string
}

func NewStorageError(message, operation, key string, cause error) *StorageError {
	return &StorageError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return stderrors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return stderrors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

// AsAppError extracts the shared AppError from any typed error in the chain.
func AsAppError(err error) (*AppError, bool) {
	var cfgErr *ConfigurationError
	if stderrors.As(err, &cfgErr) {
		return cfgErr.AppError, true
	}
	var upErr *UpstreamError
	if stderrors.As(err, &upErr) {
		return upErr.AppError, true
	}
	var valErr *ValidationError
	if stderrors.As(err, &valErr) {
		return valErr.AppError, true
	}
	var nfErr *NotFoundError
	if stderrors.As(err, &nfErr) {
		return nfErr.AppError, true
	}
	var stErr *StorageError
	if stderrors.As(err, &stErr) {
		return stErr.AppError, true
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
