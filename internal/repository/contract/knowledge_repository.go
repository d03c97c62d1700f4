package contract

import (
	"context"

	"ig-engagement-be/internal/entity"

	"github.com/google/uuid"
)

type KnowledgeDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	Update(ctx context.Context, doc *entity.KnowledgeDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.KnowledgeDocument, error)
	FindAll(ctx context.Context) ([]*entity.KnowledgeDocument, error)
}

type KnowledgeEmbeddingRepository interface {
	// ReplaceForDocument deletes all chunks for the document and inserts
	// the new set in one transaction.
	ReplaceForDocument(ctx context.Context, documentId uuid.UUID, embeddings []*entity.KnowledgeEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context) ([]*entity.KnowledgeEmbedding, error)
	// FindNearest returns the closest chunks by cosine distance.
	FindNearest(ctx context.Context, embedding []float32, limit int) ([]*entity.KnowledgeEmbedding, error)
}
