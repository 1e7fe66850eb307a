package response

import (
	goerrors "errors"

	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// OK sends a 200 JSON response.
func OK(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a 201 JSON response.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return errorBody(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return errorBody(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

// DomainError maps a service error to its HTTP response. Anything that is
// not a DomainError becomes an opaque 500; internals never reach the body.
func DomainError(c *fiber.Ctx, err error) error {
	var domainErr *domainerrors.DomainError
	if goerrors.As(err, &domainErr) {
		return errorBody(c, domainErr.Status, domainErr.Code, domainErr.Message)
	}
	return errorBody(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func errorBody(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
