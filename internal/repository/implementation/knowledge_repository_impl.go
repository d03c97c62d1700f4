package implementation

import (
	"context"
	"errors"

	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/mapper"
	"ig-engagement-be/internal/model"
	"ig-engagement-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeDocumentRepository(db *gorm.DB) contract.KnowledgeDocumentRepository {
	return &KnowledgeDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.KnowledgeDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeDocumentRepositoryImpl) Update(ctx context.Context, doc *entity.KnowledgeDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.KnowledgeDocument{}, id).Error
}

func (r *KnowledgeDocumentRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.KnowledgeDocument, error) {
	var m model.KnowledgeDocument
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeDocumentRepositoryImpl) FindAll(ctx context.Context) ([]*entity.KnowledgeDocument, error) {
	var models []*model.KnowledgeDocument
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	docs := make([]*entity.KnowledgeDocument, 0, len(models))
	for _, m := range models {
		docs = append(docs, r.mapper.ToEntity(m))
	}
	return docs, nil
}

type KnowledgeEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeEmbeddingMapper
}

func NewKnowledgeEmbeddingRepository(db *gorm.DB) contract.KnowledgeEmbeddingRepository {
	return &KnowledgeEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeEmbeddingMapper(),
	}
}

func (r *KnowledgeEmbeddingRepositoryImpl) ReplaceForDocument(ctx context.Context, documentId uuid.UUID, embeddings []*entity.KnowledgeEmbedding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentId).Delete(&model.KnowledgeEmbedding{}).Error; err != nil {
			return err
		}
		for _, e := range embeddings {
			m := r.mapper.ToModel(e)
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *KnowledgeEmbeddingRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.KnowledgeEmbedding{}).Error
}

func (r *KnowledgeEmbeddingRepositoryImpl) FindAll(ctx context.Context) ([]*entity.KnowledgeEmbedding, error) {
	var models []*model.KnowledgeEmbedding
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	embeddings := make([]*entity.KnowledgeEmbedding, 0, len(models))
	for _, m := range models {
		embeddings = append(embeddings, r.mapper.ToEntity(m))
	}
	return embeddings, nil
}

func (r *KnowledgeEmbeddingRepositoryImpl) FindNearest(ctx context.Context, embedding []float32, limit int) ([]*entity.KnowledgeEmbedding, error) {
	var models []*model.KnowledgeEmbedding
	err := r.db.WithContext(ctx).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	embeddings := make([]*entity.KnowledgeEmbedding, 0, len(models))
	for _, m := range models {
		embeddings = append(embeddings, r.mapper.ToEntity(m))
	}
	return embeddings, nil
}
