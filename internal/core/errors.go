package core

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorType classifies an engine error.
type ErrorType string

const (
	// ErrorTypeBackend indicates an upstream inference backend error (5xx)
	ErrorTypeBackend ErrorType = "backend_error"
	// ErrorTypeRateLimit indicates a rate limit error (429)
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeInvalidRequest indicates a client error (4xx)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeAuthentication indicates an authentication error (401)
	ErrorTypeAuthentication ErrorType = "authentication_error"
	// ErrorTypeConfiguration indicates a config-build-time error (unknown model)
	ErrorTypeConfiguration ErrorType = "configuration_error"
)

// CompletionError is the base error type for all engine errors.
type CompletionError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   string    `json:"provider,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *CompletionError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *CompletionError) Unwrap() error {
	return e.Err
}

// ToJSON returns the client-facing error body.
func (e *CompletionError) ToJSON() map[string]interface{} {
	inner := map[string]interface{}{
		"type":    string(e.Type),
		"message": e.Message,
	}
	if e.Provider != "" {
		inner["provider"] = e.Provider
	}
	return map[string]interface{}{"error": inner}
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *CompletionError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeInvalidRequest, ErrorTypeConfiguration:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewBackendError creates a new backend error (upstream 5xx)
func NewBackendError(provider string, statusCode int, message string, err error) *CompletionError {
	return &CompletionError{
		Type:       ErrorTypeBackend,
		Message:    message,
		StatusCode: statusCode,
		Provider:   provider,
		Err:        err,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(provider string, message string) *CompletionError {
	return &CompletionError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Provider:   provider,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *CompletionError {
	return &CompletionError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewAuthenticationError creates a new authentication error (401)
func NewAuthenticationError(provider string, message string) *CompletionError {
	return &CompletionError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Provider:   provider,
	}
}

// NewConfigurationError creates a config-build-time error. Configuration
// errors are fatal and surfaced synchronously; they never silently default.
func NewConfigurationError(message string) *CompletionError {
	return &CompletionError{
		Type:    ErrorTypeConfiguration,
		Message: message,
	}
}

// ParseBackendError parses an error response body from the inference
// backend into an appropriate CompletionError.
func ParseBackendError(provider string, statusCode int, body []byte, originalErr error) *CompletionError {
	var errorResponse struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	message := string(body)
	if err := json.Unmarshal(body, &errorResponse); err == nil && errorResponse.Error.Message != "" {
		message = errorResponse.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthenticationError(provider, message)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(provider, message)
	case statusCode >= 400 && statusCode < 500:
		err := NewInvalidRequestError(message, originalErr)
		err.StatusCode = statusCode
		err.Provider = provider
		return err
	default:
		return NewBackendError(provider, http.StatusBadGateway, message, originalErr)
	}
}
