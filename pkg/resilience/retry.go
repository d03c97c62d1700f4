package resilience

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryOptions controls the backoff loop. Delay grows as
// InitialDelay * 2^attempt, capped at MaxDelay.
type RetryOptions struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	ShouldRetry  func(error) bool
}

// DefaultRetryOptions matches the upstream rate limits we actually see:
// three retries starting at half a second.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		ShouldRetry:  DefaultShouldRetry,
	}
}

var nonRetryableHints = []string{
	"validation", "invalid", "malformed",
	"permission", "unauthorized", "forbidden", "auth", "cors",
}

var retryableHints = []string{
	"network", "timeout", "timed out", "connection", "unreachable",
	"rate limit", "too many requests", "429",
	"500", "502", "503", "504", "unavailable", "internal server error",
}

// DefaultShouldRetry retries transient network, timeout, rate-limit and 5xx
// failures. Validation, permission, auth and CORS failures are never retried:
// repeating them cannot change the outcome.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range nonRetryableHints {
		if strings.Contains(msg, hint) {
			return false
		}
	}
	for _, hint := range retryableHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// Retry runs op until it succeeds, the retry budget is spent, or the error is
// ruled non-retryable. The first call happens immediately; each retry waits
// the backoff delay first.
func Retry[T any](ctx context.Context, op func() (T, error), opts RetryOptions) (T, error) {
	var zero T

	shouldRetry := opts.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = DefaultShouldRetry
	}

	delay := opts.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if opts.MaxDelay > 0 && delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}

		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("retries exhausted after %d attempts: %w", opts.MaxRetries+1, lastErr)
}
