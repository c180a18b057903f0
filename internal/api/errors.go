package api

import (
	"errors"
	"fmt"
)

// Classified upstream failures. Callers branch with errors.Is; everything
// that is not one of these sentinels is an *UpstreamError.
var (
	// ErrMissingCredential is a configuration failure: no bearer key was
	// supplied. Never retried.
	ErrMissingCredential = errors.New("faceit: missing API credential")

	// ErrNotFound maps 404. A normal outcome for player and match lookups.
	ErrNotFound = errors.New("faceit: resource not found")

	// ErrUnauthorized maps 401 and 403. Match statistics behind it are
	// treated as not ready or hidden, not as a batch failure.
	ErrUnauthorized = errors.New("faceit: unauthorized")

	// ErrRateLimited means 429 responses survived the whole retry budget.
	ErrRateLimited = errors.New("faceit: rate limit retries exhausted")

	// ErrNetwork covers transport-level failures and timeouts.
	ErrNetwork = errors.New("faceit: network failure")
)

// UpstreamError carries unexpected upstream status codes with their body.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("faceit: upstream status=%d body=%s", e.StatusCode, e.Body)
}
