package handlers

import (
	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/services/auth"
	"github.com/sohamgherwada/PayQI/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type merchantOut struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	KYCVerified bool   `json:"kyc_verified"`
	CreatedAt   string `json:"created_at"`
}

func toMerchantOut(m *models.Merchant) merchantOut {
	return merchantOut{
		ID:          m.ID,
		Email:       m.Email,
		KYCVerified: m.KYCVerified,
		CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Register creates a merchant account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	merchant, err := h.authService.Register(c.Context(), input.Email, input.Password)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, toMerchantOut(merchant))
}

// Login authenticates a merchant and returns a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	token, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.OK(c, fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the authenticated merchant's record.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	merchant, ok := c.Locals("merchant").(*models.Merchant)
	if !ok {
		return response.Unauthorized(c, "invalid token")
	}
	return response.OK(c, toMerchantOut(merchant))
}
