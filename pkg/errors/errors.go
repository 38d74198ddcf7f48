package errors

import "fmt"

// Error codes
const (
	CodeMetadataError = "METADATA_ERROR"
	CodeAPIError      = "API_ERROR"
	CodeNotReady      = "NOT_READY"
	CodeDecode        = "DECODE_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeAddress       = "ADDRESS_ERROR"
	CodeCache         = "CACHE_ERROR"
)

type MetadataError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *MetadataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *MetadataError) Unwrap() error {
	return e.Cause
}

func NewMetadataError(message, code string, statusCode int, context map[string]any) *MetadataError {
	return &MetadataError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *MetadataError) WithCause(cause error) *MetadataError {
	e.Cause = cause
	return e
}

type APIError struct {
	*MetadataError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		MetadataError: &MetadataError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// WithCause keeps the *APIError type so callers can still match it with errors.As.
func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

// NewNotReadyError reports that the node endpoint has not been configured yet.
func NewNotReadyError(message string) *APIError {
	return &APIError{
		MetadataError: &MetadataError{
			Message:    message,
			Code:       CodeNotReady,
			StatusCode: 503,
		},
	}
}

type DecodeError struct {
	*MetadataError
	RecordID string
}

func NewDecodeError(message, recordID string, cause error) *DecodeError {
	return &DecodeError{
		MetadataError: &MetadataError{
			Message:    message,
			Code:       CodeDecode,
			StatusCode: 422,
			Context: map[string]any{
				"record_id": recordID,
			},
			Cause: cause,
		},
		RecordID: recordID,
	}
}

type ValidationError struct {
	*MetadataError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		MetadataError: &MetadataError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type AddressError struct {
	*MetadataError
	Address string
}

func NewAddressError(message, address string) *AddressError {
	return &AddressError{
		MetadataError: &MetadataError{
			Message:    message,
			Code:       CodeAddress,
			StatusCode: 400,
			Context: map[string]any{
				"address": address,
			},
		},
		Address: address,
	}
}

type CacheError struct {
	*MetadataError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		MetadataError: &MetadataError{
			Message:    message,
			Code:       CodeCache,
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
