package controller

import (
	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/pkg/serverutils"
	"ig-engagement-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Receive(ctx *fiber.Ctx) error
}

type webhookController struct {
	webhookService service.IWebhookService
	logger         logger.ILogger
}

func NewWebhookController(webhookService service.IWebhookService, log logger.ILogger) IWebhookController {
	return &webhookController{
		webhookService: webhookService,
		logger:         log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	// Meta requires the webhook at a stable root path, not under /api
	r.Get("/webhook", c.Verify)
	r.Post("/webhook", c.Receive)
}

func (c *webhookController) Verify(ctx *fiber.Ctx) error {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	echo, ok := c.webhookService.VerifyHandshake(mode, token, challenge)
	if !ok {
		c.logger.Warn("webhook", "handshake rejected", map[string]interface{}{"mode": mode})
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Verification failed"))
	}

	// The platform expects the raw challenge string back, not JSON
	return ctx.Status(fiber.StatusOK).SendString(echo)
}

func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	var envelope dto.WebhookEnvelope
	if err := ctx.BodyParser(&envelope); err != nil {
		c.logger.Warn("webhook", "unparseable delivery body", map[string]interface{}{"error": err.Error()})
	}

	// Unparseable bodies land here too with an empty object
	if envelope.Object != "instagram" && envelope.Object != "page" {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Unknown webhook object"))
	}

	c.webhookService.HandleDelivery(ctx.Context(), &envelope)

	return ctx.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
}
