package api

import (
	"errors"
	"fmt"
)

// Common errors returned by the Ethnos API client.
var (
	// ErrTimeout indicates the final attempt of a request timed out.
	ErrTimeout = errors.New("ethnos API request timed out")

	// ErrNetwork indicates a network connectivity issue.
	ErrNetwork = errors.New("network error communicating with ethnos API")

	// ErrNotFound indicates the resource was not found.
	ErrNotFound = errors.New("not found in ethnos API")

	// ErrInvalidResponse indicates an unexpected API response body.
	ErrInvalidResponse = errors.New("invalid response from ethnos API")
)

// APIError represents a failure reported by the API itself: a non-success
// transport status, or a success status whose payload carries the
// "status":"error" envelope.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ethnos API error (status %d): %s [%s]", e.StatusCode, e.Message, e.Endpoint)
	}
	return fmt.Sprintf("ethnos API error (status %d) [%s]", e.StatusCode, e.Endpoint)
}

// IsTimeout returns true if the error is the distinguished timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
