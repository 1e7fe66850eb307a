package handlers

import (
	"github.com/sohamgherwada/PayQI/internal/services/webhook"
	"github.com/sohamgherwada/PayQI/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// signatureHeader is the provider's IPN signature header.
const signatureHeader = "x-nowpayments-sig"

type WebhookHandler struct {
	webhookService webhook.Service
}

func NewWebhookHandler(webhookService webhook.Service) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleWebhook verifies and applies one provider notification. Once the
// signature checks out the delivery is acknowledged even when the payment
// lookup fails; only authentication and malformed payloads get an error
// status.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get(signatureHeader)

	if err := h.webhookService.Handle(c.Context(), body, signature); err != nil {
		return response.DomainError(c, err)
	}

	return response.OK(c, fiber.Map{"status": "ok"})
}
