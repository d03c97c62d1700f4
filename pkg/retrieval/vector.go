package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Embedder generates the query vector for vector-mode retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Candidate pairs a precomputed embedding with its payload.
type Candidate struct {
	Embedding  []float32
	SourceName string
	Content    string
}

// VectorRetriever ranks candidates by cosine similarity to the query
// embedding.
type VectorRetriever struct {
	embedder Embedder
}

func NewVectorRetriever(embedder Embedder) *VectorRetriever {
	return &VectorRetriever{embedder: embedder}
}

// Retrieve embeds the query, ranks candidates by descending similarity and
// truncates to topK.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, candidates []Candidate, topK int) (Result, error) {
	if topK <= 0 || len(candidates) == 0 {
		return nil, nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	type scored struct {
		candidate  Candidate
		similarity float64
	}

	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{candidate: c, similarity: CosineSimilarity(queryVec, c.Embedding)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].similarity > ranked[j].similarity
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	result := make(Result, len(ranked))
	for i, s := range ranked {
		result[i] = ContextItem{SourceName: s.candidate.SourceName, Content: s.candidate.Content}
	}
	return result, nil
}

// CosineSimilarity is the dot product divided by the product of L2 norms.
// It returns 0 when either vector has zero norm or the dimensions differ,
// never dividing by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
