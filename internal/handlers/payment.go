package handlers

import (
	"strconv"

	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/services/payment"
	"github.com/sohamgherwada/PayQI/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePayment issues a new payment request for the calling merchant.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	merchant, ok := c.Locals("merchant").(*models.Merchant)
	if !ok {
		return response.Unauthorized(c, "invalid token")
	}

	var input struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	result, err := h.paymentService.CreatePayment(c.Context(), merchant.ID, input.Amount, input.Currency)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, result)
}

// GetPayment returns one payment scoped to the calling merchant.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	merchant, ok := c.Locals("merchant").(*models.Merchant)
	if !ok {
		return response.Unauthorized(c, "invalid token")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid payment id")
	}

	p, err := h.paymentService.GetPayment(c.Context(), uint(id), merchant.ID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.OK(c, p)
}
