package api

import (
	"errors"
	"fmt"
)

// APIError represents a non-success status returned by the task service.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsAPIError reports whether err wraps an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// RequestError ties a failed call to the id sent in the X-Request-Id header.
type RequestError struct {
	RequestID string
	Err       error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// RequestID extracts the request id from err, or "" if err did not come
// from a Client call.
func RequestID(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.RequestID
	}
	return ""
}
