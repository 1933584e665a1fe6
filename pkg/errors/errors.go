package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures from the Census API and surrounding I/O
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeNoData      ErrorType = "no_data"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a classified API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a classified error
func New(errorType ErrorType, code int, message string) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// Newf creates a classified error with a formatted message
func Newf(errorType ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...), Code: code}
}

// TypeOf returns the classification of err, or ErrorTypeUnknown when err is
// not a classified Error.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}

// IsNoData reports whether err carries the provider's explicit "no data for
// this combination" signal. No-data is permanent for the run: it is neither
// retried nor persisted.
func IsNoData(err error) bool {
	return TypeOf(err) == ErrorTypeNoData
}

// IsRetryable checks if an error type should be retried. Parsing errors
// count as retryable: a malformed payload is usually a truncated or
// garbled response, not a stable property of the query.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeParsing:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 204, 400, 401, 403, 404: // Responses that won't change on retry
		return false
	default:
		return statusCode >= 500
	}
}
