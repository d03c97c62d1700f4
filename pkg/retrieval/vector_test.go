package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"both empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

type fixedEmbedder struct {
	vec []float32
	err error
}

func (f *fixedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func TestVectorRetrieveRanksBySimilarity(t *testing.T) {
	r := NewVectorRetriever(&fixedEmbedder{vec: []float32{1, 0}})

	candidates := []Candidate{
		{Embedding: []float32{0, 1}, SourceName: "orthogonal"},
		{Embedding: []float32{1, 0.1}, SourceName: "close"},
		{Embedding: []float32{1, 0}, SourceName: "exact"},
	}

	result, err := r.Retrieve(context.Background(), "q", candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("len = %d, want 2", len(result))
	}
	if result[0].SourceName != "exact" || result[1].SourceName != "close" {
		t.Errorf("ranking wrong: %+v", result)
	}
}

func TestVectorRetrieveEmbedderFailure(t *testing.T) {
	r := NewVectorRetriever(&fixedEmbedder{err: errors.New("provider down")})

	_, err := r.Retrieve(context.Background(), "q", []Candidate{{Embedding: []float32{1}}}, 1)
	if err == nil {
		t.Fatal("expected error when embedding the query fails")
	}
}

func TestVectorRetrieveEmptyInputs(t *testing.T) {
	r := NewVectorRetriever(&fixedEmbedder{vec: []float32{1}})

	result, err := r.Retrieve(context.Background(), "q", nil, 3)
	if err != nil || result != nil {
		t.Errorf("no candidates must return nil, got %v / %v", result, err)
	}
}
