package resilience

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func fastOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     4 * time.Millisecond,
		ShouldRetry:  DefaultShouldRetry,
	}
}

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), func() (string, error) {
		calls++
		return "ok", nil
	}, fastOptions())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), func() (int, error) {
		calls++
		if calls <= 2 {
			return 0, errors.New("network unreachable")
		}
		return 42, nil
	}, fastOptions())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %d, want 42", result)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), func() (int, error) {
		calls++
		return 0, errors.New("connection timeout")
	}, fastOptions())

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// MaxRetries=3 means 4 total attempts
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if !strings.Contains(err.Error(), "retries exhausted after 4 attempts") {
		t.Errorf("error = %q, want exhaustion message", err)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), func() (int, error) {
		calls++
		return 0, errors.New("validation failed: name required")
	}, fastOptions())

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (non-retryable must not retry)", calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	opts := fastOptions()
	opts.InitialDelay = 100 * time.Millisecond

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, func() (int, error) {
			calls++
			return 0, errors.New("network down")
		}, opts)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not stop after cancellation")
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := fmt.Errorf("rate limit hit")
	_, err := Retry(context.Background(), func() (int, error) {
		return 0, sentinel
	}, fastOptions())

	if !errors.Is(err, sentinel) {
		t.Errorf("exhaustion error must wrap the last failure, got %v", err)
	}
}

func TestDefaultShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"network", errors.New("network unreachable"), true},
		{"timeout", errors.New("request timed out"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"http 429", errors.New("status 429"), true},
		{"http 503", errors.New("503 service unavailable"), true},
		{"validation", errors.New("validation error"), false},
		{"permission", errors.New("permission denied"), false},
		{"unauthorized", errors.New("401 unauthorized"), false},
		{"unknown", errors.New("something odd happened"), false},
		// Non-retryable hints win even when a transient hint is present
		{"invalid timeout config", errors.New("invalid timeout value"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultShouldRetry(tt.err); got != tt.want {
				t.Errorf("DefaultShouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
