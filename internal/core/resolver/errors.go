package resolver

import "errors"

var (
	// ErrResolutionFailed is returned when both the extraction backend
	// and the generic fallback extractor failed for a URL.
	ErrResolutionFailed = errors.New("failed to resolve URL")

	// ErrInvalidURL is returned when the input is not an HTTP(S) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrBackendSkipped is the failure recorded when the circuit breaker
	// refused a backend call for a failing domain.
	ErrBackendSkipped = errors.New("extraction backend skipped by circuit breaker")
)
