package embedding

import "context"

// Task types passed to providers that distinguish query and document
// embeddings (Gemini does, Ollama ignores them).
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// QueryEmbedder adapts an EmbeddingProvider to the retrieval engine's
// single-vector contract, pinning the query task type.
type QueryEmbedder struct {
	provider EmbeddingProvider
}

func NewQueryEmbedder(provider EmbeddingProvider) *QueryEmbedder {
	return &QueryEmbedder{provider: provider}
}

func (e *QueryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.provider.Generate(ctx, text, TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}
