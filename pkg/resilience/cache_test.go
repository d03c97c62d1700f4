package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestGetOrFetchFresh(t *testing.T) {
	c := NewFallbackCache()

	got, err := c.GetOrFetch("k", func() (interface{}, error) {
		return "fresh", nil
	}, FallbackOptions{})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fresh" {
		t.Errorf("got %v, want fresh", got)
	}
}

func TestGetOrFetchFallsBackToCached(t *testing.T) {
	c := NewFallbackCache()

	if _, err := c.GetOrFetch("k", func() (interface{}, error) { return "v1", nil }, FallbackOptions{}); err != nil {
		t.Fatal(err)
	}

	got, err := c.GetOrFetch("k", func() (interface{}, error) {
		return nil, errors.New("upstream down")
	}, FallbackOptions{})

	if err != nil {
		t.Fatalf("expected cached fallback, got error: %v", err)
	}
	if got != "v1" {
		t.Errorf("got %v, want v1", got)
	}
}

func TestGetOrFetchStaleRejected(t *testing.T) {
	c := NewFallbackCache()

	if _, err := c.GetOrFetch("k", func() (interface{}, error) { return "old", nil }, FallbackOptions{}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	_, err := c.GetOrFetch("k", func() (interface{}, error) {
		return nil, errors.New("upstream down")
	}, FallbackOptions{MaxAge: time.Millisecond})

	if err == nil {
		t.Fatal("stale entry served without ReturnStaleOnError")
	}
}

func TestGetOrFetchStaleAllowed(t *testing.T) {
	c := NewFallbackCache()

	if _, err := c.GetOrFetch("k", func() (interface{}, error) { return "old", nil }, FallbackOptions{}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	got, err := c.GetOrFetch("k", func() (interface{}, error) {
		return nil, errors.New("upstream down")
	}, FallbackOptions{MaxAge: time.Millisecond, ReturnStaleOnError: true})

	if err != nil {
		t.Fatalf("stale allowed but got error: %v", err)
	}
	if got != "old" {
		t.Errorf("got %v, want old", got)
	}
}

func TestInvalidate(t *testing.T) {
	c := NewFallbackCache()

	if _, err := c.GetOrFetch("k", func() (interface{}, error) { return "v", nil }, FallbackOptions{}); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("k")

	_, err := c.GetOrFetch("k", func() (interface{}, error) {
		return nil, errors.New("down")
	}, FallbackOptions{})

	if err == nil {
		t.Fatal("invalidated entry must not be served")
	}
}
