package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/repository/contract"
	"ig-engagement-be/pkg/embedding"
	"ig-engagement-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	documentRepo  contract.KnowledgeDocumentRepository
	embeddingRepo contract.KnowledgeEmbeddingRepository
	batchGen      *embedding.BatchGenerator
	logger        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentRepo contract.KnowledgeDocumentRepository,
	embeddingRepo contract.KnowledgeEmbeddingRepository,
	batchGen *embedding.BatchGenerator,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		documentRepo:  documentRepo,
		embeddingRepo: embeddingRepo,
		batchGen:      batchGen,
		logger:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedKnowledgeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal embed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads would never succeed on retry
		return
	}

	doc, err := cs.documentRepo.FindById(ctx, payload.DocumentId)
	if err != nil {
		cs.logger.Error("consumer", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		// Deleted between publish and consume
		cs.logger.Warn("consumer", "document not found, skipping", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Document: %s\n\n%s", doc.Name, doc.Content)
	chunks := utils.SplitText(content, 500, 100)

	cs.logger.Info("consumer", "embedding document", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(chunks),
	})

	vectors, err := cs.batchGen.GenerateAll(ctx, chunks, nil)
	if err != nil {
		cs.logger.Error("consumer", "embedding generation failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	embeddings := make([]*entity.KnowledgeEmbedding, 0, len(chunks))
	for i, vec := range vectors {
		if vec == nil {
			// Individual chunk failed but the batch as a whole passed,
			// index what we have.
			continue
		}
		embeddings = append(embeddings, &entity.KnowledgeEmbedding{
			Id:         uuid.New(),
			Document:   chunks[i],
			Embedding:  vec,
			DocumentId: doc.Id,
			ChunkIndex: i,
		})
	}

	if err := cs.embeddingRepo.ReplaceForDocument(ctx, doc.Id, embeddings); err != nil {
		cs.logger.Error("consumer", "failed to store embeddings", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "document embedded", map[string]interface{}{
		"document_id": doc.Id.String(),
		"stored":      len(embeddings),
	})
	msg.Ack()
}
