// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"strings"

	"github.com/sohamgherwada/PayQI/internal/services/auth"
	"github.com/sohamgherwada/PayQI/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and resolves the calling merchant.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Handler extracts the bearer token, validates it (signature and expiry)
// and stores the merchant record in the request context. The merchant is
// looked up on every request so a deleted account cannot keep using a
// still-valid token.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.authService.ParseToken(tokenString)
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}

	merchant, err := m.authService.GetMerchantByEmail(c.Context(), claims.Subject)
	if err != nil {
		return response.Unauthorized(c, "invalid token")
	}

	c.Locals("merchant", merchant)
	return c.Next()
}
