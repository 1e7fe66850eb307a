package handlers

import (
	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/services/payment"
	"github.com/sohamgherwada/PayQI/internal/utils/pagination"
	"github.com/sohamgherwada/PayQI/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	paymentService payment.Service
}

func NewTransactionHandler(paymentService payment.Service) *TransactionHandler {
	return &TransactionHandler{paymentService: paymentService}
}

// ListTransactions returns the merchant's payment history, newest first.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	merchant, ok := c.Locals("merchant").(*models.Merchant)
	if !ok {
		return response.Unauthorized(c, "invalid token")
	}

	p := pagination.ParseFromRequest(c)

	payments, err := h.paymentService.ListPayments(c.Context(), merchant.ID, p.Skip, p.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	return response.OK(c, fiber.Map{"items": payments})
}
