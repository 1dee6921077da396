package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chiva/internal/services"
)

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": msg})
}

// failErr maps service errors to HTTP: business rejections carry their reason
// code; anything else is a generic 500 so internals never leak.
func failErr(c *fiber.Ctx, err error) error {
	if e, ok := err.(*services.Err); ok {
		status := fiber.StatusBadRequest
		switch e {
		case services.ErrAlreadyConverted, services.ErrStatusConflict:
			status = fiber.StatusConflict
		case services.ErrUnavailable, services.ErrUnknownReference, services.ErrItemNotFound:
			status = fiber.StatusNotFound
		}
		return fail(c, status, e.Code, e.Message)
	}
	return fail(c, fiber.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
}
