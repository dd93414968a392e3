package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saathi/saathi-backend/internal/apperr"
)

// statusFromErr maps service error kinds onto HTTP status codes.
func statusFromErr(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindGeneration:
		if apperr.IsTimeout(err) {
			return fiber.StatusGatewayTimeout
		}
		return fiber.StatusBadGateway
	case apperr.KindStore:
		return fiber.StatusInternalServerError
	}
	return fiber.StatusInternalServerError
}

// fail writes the uniform {status, message} failure body.
func fail(c *fiber.Ctx, err error) error {
	code := statusFromErr(err)
	return c.Status(code).JSON(fiber.Map{
		"status":  code,
		"message": err.Error(),
	})
}
