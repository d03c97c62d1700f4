package resilience

import "fmt"

// Outcome is one item's result inside a batch operation.
type Outcome struct {
	Success bool
	Data    interface{}
	Err     error
}

// Summary is the partial-success report for a batch: "12 of 15 sent" rather
// than failing the whole run on one bad item.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	SuccessRate float64
	Errors      []*ClassifiedError
}

func (s Summary) String() string {
	return fmt.Sprintf("%d of %d succeeded", s.Succeeded, s.Total)
}

// AggregatePartial computes counts, success rate and the normalized list of
// classified errors for a batch of outcomes.
func AggregatePartial(results []Outcome) Summary {
	summary := Summary{Total: len(results)}

	for _, res := range results {
		if res.Success {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		if res.Err != nil {
			summary.Errors = append(summary.Errors, ClassifyError(res.Err))
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Succeeded) / float64(summary.Total)
	}

	return summary
}
