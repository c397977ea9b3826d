package client

import (
	"errors"
	"fmt"
)

// ClientError represents the different kinds of errors the client can
// produce. HTTP error statuses are deliberately not among them: any
// HTTP response, whatever its status, is a successful transport
// outcome at this layer.
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error.
type ErrorType string

const (
	// ConfigurationError covers malformed or empty base-URL
	// configuration. Raised at construction, never at request time.
	ConfigurationError ErrorType = "configuration"
	// IdentificationError covers a user agent failing the allowed
	// character pattern. Raised at construction.
	IdentificationError ErrorType = "identification"
	// UnrecognizedURIError covers an absolute request URL that matches
	// none of the configured servers. Never retried.
	UnrecognizedURIError ErrorType = "unrecognized_uri"
	// ConnectionError covers transport-level failures, surfaced only
	// after every configured server has been tried.
	ConnectionError ErrorType = "connection"
	// ValidationError covers malformed per-request input.
	ValidationError ErrorType = "validation"
	// InterceptorError covers failures raised by request or response
	// interceptors.
	InterceptorError ErrorType = "interceptor"
)

type configurationError struct {
	message string
	wrapped error
}

func (e *configurationError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("configuration error: %s", e.message)
}

func (e *configurationError) Type() ErrorType { return ConfigurationError }

func (e *configurationError) Unwrap() error { return e.wrapped }

type identificationError struct {
	agent string
}

func (e *identificationError) Error() string {
	return fmt.Sprintf("User Agent must match pattern '%s': %s", userAgentPattern, e.agent)
}

func (e *identificationError) Type() ErrorType { return IdentificationError }

type unrecognizedURIError struct {
	uri string
}

func (e *unrecognizedURIError) Error() string {
	return fmt.Sprintf("Unrecognized server URI in the request %s.", e.uri)
}

func (e *unrecognizedURIError) Type() ErrorType { return UnrecognizedURIError }

// URI returns the rejected request URI.
func (e *unrecognizedURIError) URI() string { return e.uri }

type connectionError struct {
	message string
	wrapped error
}

func (e *connectionError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("connection error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("connection error: %s", e.message)
}

func (e *connectionError) Type() ErrorType { return ConnectionError }

func (e *connectionError) Unwrap() error { return e.wrapped }

type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }

type interceptorError struct {
	message string
	stage   string
	wrapped error
}

func (e *interceptorError) Error() string {
	return fmt.Sprintf("interceptor error: %s (stage: %s): %v", e.message, e.stage, e.wrapped)
}

func (e *interceptorError) Type() ErrorType { return InterceptorError }

func (e *interceptorError) Unwrap() error { return e.wrapped }

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(message string, wrapped error) ClientError {
	return &configurationError{message: message, wrapped: wrapped}
}

// NewIdentificationError reports a user agent that fails the allowed
// character pattern.
func NewIdentificationError(agent string) ClientError {
	return &identificationError{agent: agent}
}

// NewUnrecognizedURIError reports an absolute request URI that matches
// none of the configured servers.
func NewUnrecognizedURIError(uri string) ClientError {
	return &unrecognizedURIError{uri: uri}
}

// NewConnectionError creates a new connection-level error.
func NewConnectionError(message string, wrapped error) ClientError {
	return &connectionError{message: message, wrapped: wrapped}
}

// NewValidationError creates a new request validation error.
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

// NewInterceptorError creates a new interceptor error.
func NewInterceptorError(message, stage string, wrapped error) ClientError {
	return &interceptorError{message: message, stage: stage, wrapped: wrapped}
}

// IsErrorType checks if an error is of a specific type.
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx).
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
