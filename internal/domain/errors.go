package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Request construction errors (caller bugs, never retried)
	ErrorCodeActionUnknown    ErrorCode = "ACTION_UNKNOWN"
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Callback verification errors
	ErrorCodeDecodeFailed      ErrorCode = "DECODE_FAILED"
	ErrorCodeSignatureMismatch ErrorCode = "SIGNATURE_MISMATCH"

	// Gateway errors (verified response carrying a business failure)
	ErrorCodeGatewayError ErrorCode = "GATEWAY_ERROR"

	// Infrastructure errors
	ErrorCodeTransportError ErrorCode = "TRANSPORT_ERROR"
	ErrorCodeStorageError   ErrorCode = "STORAGE_ERROR"
	ErrorCodeConfigError    ErrorCode = "CONFIG_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// NewUnknownActionError reports an action missing from the schema registry
func NewUnknownActionError(action string) *DomainError {
	return NewDomainError(ErrorCodeActionUnknown, fmt.Sprintf("unknown action %q", action)).
		WithDetail("action", action)
}

// NewValidationError reports a missing, malformed or unexpected request field
func NewValidationError(field, reason string) *DomainError {
	return NewDomainError(ErrorCodeValidationFailed, fmt.Sprintf("field %q: %s", field, reason)).
		WithDetail("field", field)
}

// IsValidationError checks if an error is a caller-side request error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed || code == ErrorCodeActionUnknown
}

// IsSecurityError checks if an error indicates a possibly forged callback
func IsSecurityError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeSignatureMismatch || code == ErrorCodeDecodeFailed
}

var (
	ErrSignatureMismatch = NewDomainError(ErrorCodeSignatureMismatch, "callback signature verification failed")
	ErrDecodeFailed      = NewDomainError(ErrorCodeDecodeFailed, "payload is not well-formed")
)

// GatewayErrorCategory classifies gateway err_code values for handling
type GatewayErrorCategory string

const (
	CategoryAntiFraud    GatewayErrorCategory = "antifraud"
	CategoryFinancial    GatewayErrorCategory = "financial"
	CategoryExpired      GatewayErrorCategory = "expired"
	CategoryRequest      GatewayErrorCategory = "request"
	CategoryNonFinancial GatewayErrorCategory = "non_financial"
	CategoryUnknown      GatewayErrorCategory = "unknown"
)

// GatewayError is a verified gateway response whose status indicates a
// business failure. It carries the gateway's own code and description and is
// surfaced to callers as data, never as a panic.
type GatewayError struct {
	ErrCode        string
	ErrDescription string
	Status         Status
	Category       GatewayErrorCategory
}

func (e *GatewayError) Error() string {
	if e.ErrDescription != "" {
		return fmt.Sprintf("gateway error %s: %s", e.ErrCode, e.ErrDescription)
	}
	return fmt.Sprintf("gateway error %s", e.ErrCode)
}

// Retriable reports whether the failure is worth retrying at the transport
// layer. Anti-fraud and request errors never are.
func (e *GatewayError) Retriable() bool {
	return e.Category == CategoryFinancial || e.Category == CategoryUnknown
}

// NewGatewayError builds a GatewayError classified by its err_code
func NewGatewayError(code, description string, status Status) *GatewayError {
	return &GatewayError{
		ErrCode:        code,
		ErrDescription: description,
		Status:         status,
		Category:       ClassifyErrCode(code),
	}
}
