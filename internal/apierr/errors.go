// Package apierr provides shared error sentinels and retry infrastructure
// for the hosted speech-to-text clients. Provider-specific failures are
// classified into these sentinels at the adapter boundary.
//
// Adapters map HTTP status codes to these errors using fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import "errors"

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrMalformedResponse indicates the API returned a body that could not be parsed.
	ErrMalformedResponse = errors.New("malformed response")
)

// IsRetryable reports whether an error is transient and worth retrying.
// Rate limits and timeout-class errors (including 5xx mapped to ErrTimeout)
// are retryable; auth failures, quota exhaustion, malformed responses, and
// context cancellation are not.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) {
		return true
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	return false
}
