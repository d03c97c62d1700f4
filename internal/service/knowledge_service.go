package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/repository/contract"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*dto.CreateKnowledgeResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowKnowledgeResponse, error)
	List(ctx context.Context) ([]*dto.ShowKnowledgeResponse, error)
	Update(ctx context.Context, req *dto.UpdateKnowledgeRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecentRuns(ctx context.Context, limit int) ([]*dto.ShowRunResponse, error)
}

type knowledgeService struct {
	documentRepo     contract.KnowledgeDocumentRepository
	embeddingRepo    contract.KnowledgeEmbeddingRepository
	runRepo          contract.AutomationRunRepository
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewKnowledgeService(
	documentRepo contract.KnowledgeDocumentRepository,
	embeddingRepo contract.KnowledgeEmbeddingRepository,
	runRepo contract.AutomationRunRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		documentRepo:     documentRepo,
		embeddingRepo:    embeddingRepo,
		runRepo:          runRepo,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *knowledgeService) Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*dto.CreateKnowledgeResponse, error) {
	doc := entity.KnowledgeDocument{
		Id:        uuid.New(),
		Name:      req.Name,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := s.documentRepo.Create(ctx, &doc); err != nil {
		return nil, err
	}

	s.requestEmbedding(ctx, doc.Id)

	return &dto.CreateKnowledgeResponse{Id: doc.Id}, nil
}

func (s *knowledgeService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowKnowledgeResponse, error) {
	doc, err := s.documentRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document not found")
	}
	return toKnowledgeResponse(doc), nil
}

func (s *knowledgeService) List(ctx context.Context) ([]*dto.ShowKnowledgeResponse, error) {
	docs, err := s.documentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ShowKnowledgeResponse, 0, len(docs))
	for _, doc := range docs {
		res = append(res, toKnowledgeResponse(doc))
	}
	return res, nil
}

func (s *knowledgeService) Update(ctx context.Context, req *dto.UpdateKnowledgeRequest) error {
	doc, err := s.documentRepo.FindById(ctx, req.Id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document not found")
	}

	doc.Name = req.Name
	doc.Content = req.Content

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return err
	}

	// Content changed, the stored chunks are stale
	s.requestEmbedding(ctx, doc.Id)
	return nil
}

func (s *knowledgeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.embeddingRepo.DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	return s.documentRepo.Delete(ctx, id)
}

func (s *knowledgeService) RecentRuns(ctx context.Context, limit int) ([]*dto.ShowRunResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ShowRunResponse, 0, len(runs))
	for _, run := range runs {
		res = append(res, &dto.ShowRunResponse{
			Id:          run.Id,
			TriggerType: run.TriggerType,
			SourceId:    run.SourceId,
			Attempted:   run.Attempted,
			Succeeded:   run.Succeeded,
			Failed:      run.Failed,
			Details:     run.Details,
			CreatedAt:   run.CreatedAt,
		})
	}
	return res, nil
}

func (s *knowledgeService) requestEmbedding(ctx context.Context, documentId uuid.UUID) {
	msgPayload := dto.PublishEmbedKnowledgeMessage{DocumentId: documentId}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		s.logger.Error("knowledge", "failed to marshal embed message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Error("knowledge", "failed to publish embed message", map[string]interface{}{
			"document_id": documentId.String(),
			"error":       err.Error(),
		})
	}
}

func toKnowledgeResponse(doc *entity.KnowledgeDocument) *dto.ShowKnowledgeResponse {
	return &dto.ShowKnowledgeResponse{
		Id:        doc.Id,
		Name:      doc.Name,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
