package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ig-engagement-be/pkg/resilience"
)

// Progress is one step of the batch generation event stream. Consumers read
// it from a channel instead of registering callbacks.
type Progress struct {
	Completed int
	Total     int
}

// BatchOptions controls batching and the per-item retry policy.
type BatchOptions struct {
	BatchSize       int
	InterBatchDelay time.Duration
	Retry           resilience.RetryOptions
	TaskType        string
}

func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		BatchSize:       5,
		InterBatchDelay: 1 * time.Second,
		Retry:           resilience.DefaultRetryOptions(),
		TaskType:        TaskRetrievalDocument,
	}
}

// BatchGenerator embeds texts in fixed-size batches to respect upstream rate
// limits: items within a batch run concurrently, batches are sequential with
// an inter-batch delay.
type BatchGenerator struct {
	provider EmbeddingProvider
	opts     BatchOptions
}

func NewBatchGenerator(provider EmbeddingProvider, opts BatchOptions) *BatchGenerator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	return &BatchGenerator{provider: provider, opts: opts}
}

// GenerateAll returns one vector per input text, in input order. Each item is
// retried independently; non-retryable errors abort the item without
// consuming retry budget. Failed items are returned as nil markers so callers
// can tell "no embedding" from a zero vector — unless more than half of all
// items fail, in which case the whole call fails.
//
// Progress events are sent to the progress channel when it has capacity; pass
// nil to skip reporting.
func (g *BatchGenerator) GenerateAll(ctx context.Context, texts []string, progress chan<- Progress) ([][]float32, error) {
	total := len(texts)
	if total == 0 {
		return nil, nil
	}

	vectors := make([][]float32, total)

	var mu sync.Mutex
	completed := 0
	failed := 0

	for start := 0; start < total; start += g.opts.BatchSize {
		end := start + g.opts.BatchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()

				res, err := resilience.Retry(ctx, func() (*EmbeddingResponse, error) {
					return g.provider.Generate(ctx, texts[idx], g.opts.TaskType)
				}, g.opts.Retry)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
				} else {
					vectors[idx] = res.Embedding.Values
				}
				completed++
				if progress != nil {
					select {
					case progress <- Progress{Completed: completed, Total: total}:
					default:
					}
				}
			}(i)
		}
		wg.Wait()

		if end < total && g.opts.InterBatchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.opts.InterBatchDelay):
			}
		}
	}

	// exactly 50% failed is still a partial success
	if float64(failed)/float64(total) > 0.5 {
		return nil, fmt.Errorf("embedding batch failed: %d of %d items failed", failed, total)
	}

	return vectors, nil
}
