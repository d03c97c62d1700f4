package service

import (
	"context"

	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/repository/memory"
	"ig-engagement-be/pkg/events"
	"ig-engagement-be/pkg/instagram"
	"ig-engagement-be/pkg/llm"
	pktNats "ig-engagement-be/pkg/nats"
	"ig-engagement-be/pkg/reply"
	"ig-engagement-be/pkg/resilience"
)

type IDmService interface {
	HandleMessage(ctx context.Context, senderID, text, messageID string)
}

type dmService struct {
	contextService IContextService
	generator      *reply.Generator
	conversations  *memory.ConversationRepository
	dedupStore     *memory.DedupStore
	transport      instagram.Transport
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewDmService(
	contextService IContextService,
	generator *reply.Generator,
	conversations *memory.ConversationRepository,
	dedupStore *memory.DedupStore,
	transport instagram.Transport,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDmService {
	return &dmService{
		contextService: contextService,
		generator:      generator,
		conversations:  conversations,
		dedupStore:     dedupStore,
		transport:      transport,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *dmService) HandleMessage(ctx context.Context, senderID, text, messageID string) {
	if messageID != "" && !s.dedupStore.MarkSeen(ctx, "dm:"+messageID) {
		s.logger.Debug("dm", "duplicate message delivery, skipping", map[string]interface{}{
			"message_id": messageID,
		})
		return
	}

	contextItems := s.contextService.BuildContext(ctx, text)
	history := s.conversations.History(senderID)

	answer := s.generator.DraftReply(ctx, text, contextItems, history)

	_, err := resilience.Retry(ctx, func() (instagram.DispatchOutcome, error) {
		out := s.transport.SendDirectMessage(ctx, senderID, answer)
		if !out.Success {
			return out, out.Error
		}
		return out, nil
	}, retryOptionsForDispatch())
	if err != nil {
		s.logger.Error("dm", "failed to send reply", map[string]interface{}{
			"sender_id": senderID,
			"error":     err.Error(),
		})
		return
	}

	s.conversations.Append(senderID,
		llm.Message{Role: "user", Content: text},
		llm.Message{Role: "assistant", Content: answer},
	)

	if s.eventPublisher != nil {
		evt := events.NewDMSent(senderID, len(contextItems))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("dm", "failed to publish dm event", map[string]interface{}{
				"sender_id": senderID,
				"error":     err.Error(),
			})
		}
	}
}
