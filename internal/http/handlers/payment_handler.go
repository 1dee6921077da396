package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "chiva/internal/log"
	"chiva/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

// Webhook receives status callbacks from the payment processor. Duplicate
// deliveries are acknowledged with 200 so the processor stops retrying;
// conflicting terminal statuses come back 409 for an operator to look at.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		applog.Security(c, "payment.webhook.malformed", map[string]any{"error": err.Error()})
		return fail(c, fiber.StatusBadRequest, "malformed_event", "invalid body")
	}

	cb, err := services.ParseCallback(payload)
	if err != nil {
		applog.Security(c, "payment.webhook.malformed", nil)
		return failErr(c, err)
	}

	applied, err := h.Payments.Apply(cb)
	if err != nil {
		applog.Error(c, "payment.webhook.apply", err, map[string]any{"reference": cb.Reference})
		return failErr(c, err)
	}

	applog.Audit(c, "payment.webhook", map[string]any{
		"reference": cb.Reference,
		"status":    cb.Status,
		"applied":   applied,
	})
	return c.JSON(fiber.Map{"ok": true, "applied": applied})
}
