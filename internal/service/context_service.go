package service

import (
	"context"

	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/repository/contract"
	"ig-engagement-be/pkg/embedding"
	"ig-engagement-be/pkg/resilience"
	"ig-engagement-be/pkg/retrieval"

	"github.com/google/uuid"
)

const (
	RetrievalModeLexical = "lexical"
	RetrievalModeVector  = "vector"
)

// IContextService assembles reference material for reply drafting from
// the knowledge base.
type IContextService interface {
	BuildContext(ctx context.Context, query string) retrieval.Result
}

type contextService struct {
	mode          string
	topK          int
	documentRepo  contract.KnowledgeDocumentRepository
	embeddingRepo contract.KnowledgeEmbeddingRepository
	provider      embedding.EmbeddingProvider
	lexical       *retrieval.LexicalRetriever
	vector        *retrieval.VectorRetriever
	docCache      *resilience.FallbackCache
	logger        logger.ILogger
}

func NewContextService(
	mode string,
	topK int,
	documentRepo contract.KnowledgeDocumentRepository,
	embeddingRepo contract.KnowledgeEmbeddingRepository,
	provider embedding.EmbeddingProvider,
	log logger.ILogger,
) IContextService {
	if topK <= 0 {
		topK = 3
	}
	return &contextService{
		mode:          mode,
		topK:          topK,
		documentRepo:  documentRepo,
		embeddingRepo: embeddingRepo,
		provider:      provider,
		lexical:       retrieval.NewLexicalRetriever(),
		vector:        retrieval.NewVectorRetriever(embedding.NewQueryEmbedder(provider)),
		docCache:      resilience.NewFallbackCache(),
		logger:        log,
	}
}

// BuildContext never fails the caller: vector retrieval degrades to
// lexical, and lexical degrades to an empty result.
func (s *contextService) BuildContext(ctx context.Context, query string) retrieval.Result {
	if s.mode == RetrievalModeVector && s.provider != nil {
		result, err := s.vectorContext(ctx, query)
		if err == nil {
			return result
		}
		s.logger.Warn("context", "vector retrieval failed, falling back to lexical", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return s.lexicalContext(ctx, query)
}

func (s *contextService) vectorContext(ctx context.Context, query string) (retrieval.Result, error) {
	res, err := s.provider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	nearest, err := s.embeddingRepo.FindNearest(ctx, res.Embedding.Values, s.topK)
	if err != nil {
		// The pgvector operator needs the extension and its index; rank
		// in-process when the database cannot.
		s.logger.Warn("context", "database knn failed, ranking in-process", map[string]interface{}{
			"error": err.Error(),
		})
		return s.inProcessVectorContext(ctx, query)
	}

	names, err := s.documentNames(ctx, nearest)
	if err != nil {
		return nil, err
	}

	result := make(retrieval.Result, 0, len(nearest))
	for _, e := range nearest {
		result = append(result, retrieval.ContextItem{
			SourceName: names[e.DocumentId],
			Content:    e.Document,
		})
	}
	return result, nil
}

func (s *contextService) inProcessVectorContext(ctx context.Context, query string) (retrieval.Result, error) {
	embeddings, err := s.embeddingRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.documentNames(ctx, embeddings)
	if err != nil {
		return nil, err
	}

	candidates := make([]retrieval.Candidate, 0, len(embeddings))
	for _, e := range embeddings {
		candidates = append(candidates, retrieval.Candidate{
			Embedding:  e.Embedding,
			SourceName: names[e.DocumentId],
			Content:    e.Document,
		})
	}
	return s.vector.Retrieve(ctx, query, candidates, s.topK)
}

func (s *contextService) documentNames(ctx context.Context, embeddings []*entity.KnowledgeEmbedding) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, e := range embeddings {
		if _, seen := names[e.DocumentId]; seen {
			continue
		}
		doc, err := s.documentRepo.FindById(ctx, e.DocumentId)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			names[e.DocumentId] = doc.Name
		}
	}
	return names, nil
}

func (s *contextService) lexicalContext(ctx context.Context, query string) retrieval.Result {
	// Serve the last known document set when the database is briefly
	// unavailable; an empty result means a context-free reply.
	raw, err := s.docCache.GetOrFetch("knowledge-documents", func() (interface{}, error) {
		return s.documentRepo.FindAll(ctx)
	}, resilience.FallbackOptions{ReturnStaleOnError: true})
	if err != nil {
		s.logger.Error("context", "failed to load documents", map[string]interface{}{"error": err.Error()})
		return nil
	}
	docs := raw.([]*entity.KnowledgeDocument)

	corpus := make([]retrieval.Document, 0, len(docs))
	for _, d := range docs {
		corpus = append(corpus, retrieval.Document{
			ID:      d.Id.String(),
			Name:    d.Name,
			Content: d.Content,
		})
	}
	return s.lexical.Retrieve(query, corpus, s.topK)
}
