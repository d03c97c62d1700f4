package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ig-engagement-be/pkg/resilience"
)

// scriptedProvider fails for texts listed in failures, permanently.
type scriptedProvider struct {
	mu       sync.Mutex
	failures map[string]bool
	calls    int
}

func (p *scriptedProvider) Generate(_ context.Context, text, _ string) (*EmbeddingResponse, error) {
	p.mu.Lock()
	p.calls++
	fail := p.failures[text]
	p.mu.Unlock()

	if fail {
		return nil, errors.New("validation: unembeddable input")
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

func fastBatchOptions() BatchOptions {
	opts := DefaultBatchOptions()
	opts.InterBatchDelay = time.Millisecond
	opts.Retry = resilience.RetryOptions{
		MaxRetries:   1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		ShouldRetry:  resilience.DefaultShouldRetry,
	}
	return opts
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("text-%02d", i)
	}
	return out
}

func TestGenerateAllSuccess(t *testing.T) {
	provider := &scriptedProvider{}
	g := NewBatchGenerator(provider, fastBatchOptions())

	vectors, err := g.GenerateAll(context.Background(), texts(7), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 7 {
		t.Fatalf("len = %d, want 7", len(vectors))
	}
	for i, v := range vectors {
		if v == nil {
			t.Errorf("vector %d is nil", i)
		}
	}
}

func TestGenerateAllHalfFailedStillSucceeds(t *testing.T) {
	// Exactly 50% failure is a partial success, not an error
	in := texts(10)
	failures := map[string]bool{}
	for i := 0; i < 5; i++ {
		failures[in[i]] = true
	}

	g := NewBatchGenerator(&scriptedProvider{failures: failures}, fastBatchOptions())

	vectors, err := g.GenerateAll(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("50%% failure must not fail the call: %v", err)
	}

	nilCount := 0
	for _, v := range vectors {
		if v == nil {
			nilCount++
		}
	}
	if nilCount != 5 {
		t.Errorf("nil markers = %d, want 5", nilCount)
	}
}

func TestGenerateAllMajorityFailedFails(t *testing.T) {
	in := texts(10)
	failures := map[string]bool{}
	for i := 0; i < 6; i++ {
		failures[in[i]] = true
	}

	g := NewBatchGenerator(&scriptedProvider{failures: failures}, fastBatchOptions())

	_, err := g.GenerateAll(context.Background(), in, nil)
	if err == nil {
		t.Fatal("expected error when more than half the items fail")
	}
	if !strings.Contains(err.Error(), "6 of 10") {
		t.Errorf("error = %q, want failure counts", err)
	}
}

func TestGenerateAllPreservesOrder(t *testing.T) {
	in := texts(6)
	g := NewBatchGenerator(&scriptedProvider{}, fastBatchOptions())

	vectors, err := g.GenerateAll(context.Background(), in, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range vectors {
		want := float32(len(in[i]))
		if len(v) != 1 || v[0] != want {
			t.Errorf("vector %d = %v, want [%v]", i, v, want)
		}
	}
}

func TestGenerateAllReportsProgress(t *testing.T) {
	in := texts(4)
	g := NewBatchGenerator(&scriptedProvider{}, fastBatchOptions())

	progress := make(chan Progress, len(in))
	if _, err := g.GenerateAll(context.Background(), in, progress); err != nil {
		t.Fatal(err)
	}
	close(progress)

	var last Progress
	count := 0
	for p := range progress {
		last = p
		count++
		if p.Total != 4 {
			t.Errorf("Total = %d, want 4", p.Total)
		}
	}
	if count == 0 {
		t.Fatal("no progress events received")
	}
	if last.Completed != 4 {
		t.Errorf("final Completed = %d, want 4", last.Completed)
	}
}

func TestGenerateAllEmptyInput(t *testing.T) {
	g := NewBatchGenerator(&scriptedProvider{}, fastBatchOptions())

	vectors, err := g.GenerateAll(context.Background(), nil, nil)
	if err != nil || vectors != nil {
		t.Errorf("empty input: got %v / %v, want nil / nil", vectors, err)
	}
}
