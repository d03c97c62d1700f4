package service

import (
	"context"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/pkg/logger"
)

type IWebhookService interface {
	// VerifyHandshake implements the subscription handshake. It returns the
	// challenge to echo back and whether verification passed.
	VerifyHandshake(mode, token, challenge string) (string, bool)
	// HandleDelivery processes a webhook POST. It never returns an error:
	// the platform expects 200 regardless, so failures are handled and
	// logged per entry.
	HandleDelivery(ctx context.Context, envelope *dto.WebhookEnvelope)
}

type webhookService struct {
	verifyToken       string
	automationService IAutomationService
	dmService         IDmService
	logger            logger.ILogger
}

func NewWebhookService(
	verifyToken string,
	automationService IAutomationService,
	dmService IDmService,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		verifyToken:       verifyToken,
		automationService: automationService,
		dmService:         dmService,
		logger:            log,
	}
}

func (s *webhookService) VerifyHandshake(mode, token, challenge string) (string, bool) {
	if mode == "subscribe" && token == s.verifyToken {
		return challenge, true
	}
	return "", false
}

func (s *webhookService) HandleDelivery(ctx context.Context, envelope *dto.WebhookEnvelope) {
	for _, entry := range envelope.Entry {
		s.processEntry(ctx, &entry)
	}
}

// processEntry isolates one entry: a panic or failure here must not stop
// the remaining entries in the same delivery.
func (s *webhookService) processEntry(ctx context.Context, entry *dto.WebhookEntry) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("webhook", "panic while processing entry", map[string]interface{}{
				"entry_id": entry.Id,
				"panic":    r,
			})
		}
	}()

	for _, change := range entry.Changes {
		if change.Field != "comments" {
			continue
		}
		// Meta sends verb "add" for new comments; some payloads omit it.
		if change.Value.Verb != "" && change.Value.Verb != "add" {
			continue
		}
		s.automationService.HandleComment(ctx, &change.Value)
	}

	for _, msgEvent := range entry.Messaging {
		if msgEvent.Message == nil {
			continue
		}
		if msgEvent.Message.IsEcho {
			// Our own outbound DMs come back as echoes, replying to them
			// would loop forever.
			continue
		}
		if msgEvent.Message.Text == "" {
			continue
		}
		s.dmService.HandleMessage(ctx, msgEvent.Sender.Id, msgEvent.Message.Text, msgEvent.Message.Mid)
	}
}
