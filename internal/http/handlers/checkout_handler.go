package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "chiva/internal/log"
	"chiva/internal/services"
	"chiva/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
	Payments *services.PaymentService
}

type checkoutReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	// Informational only; the server computes the real total.
	ClientTotal string `json:"total"`
}

// Place converts the caller's active cart into an order and opens a payment
// attempt against it.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	var req checkoutReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "invalid body")
	}

	name, ok := validate.Name(req.Name)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "missing_field", "invalid name")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "missing_field", "invalid email")
	}
	addr, ok := validate.Line(req.Address)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "missing_field", "invalid address")
	}
	city, ok := validate.Line(req.City)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "missing_field", "invalid city")
	}

	order, items, err := h.Checkout.Convert(ident(c), services.Shipping{
		Name: name, Email: email, Address: addr, City: city,
	})
	if err != nil {
		applog.Security(c, "checkout.fail", map[string]any{"error": err.Error()})
		return failErr(c, err)
	}

	// Client totals are audited, never trusted.
	if req.ClientTotal != "" {
		if ct, cerr := decimal.NewFromString(req.ClientTotal); cerr == nil && !ct.Equal(order.TotalAmount) {
			applog.Audit(c, "checkout.total_mismatch", map[string]any{
				"order_number": order.OrderNumber,
				"server_total": order.TotalAmount.String(),
				"client_total": ct.String(),
			})
		}
	}

	payment, err := h.Payments.Start(order, items)
	if err != nil {
		applog.Error(c, "payment.start", err, map[string]any{"order_number": order.OrderNumber})
		return failErr(c, err)
	}

	applog.Audit(c, "checkout.place", map[string]any{
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount.String(),
		"items":        len(items),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_number":      order.OrderNumber,
		"total_amount":      order.TotalAmount,
		"payment_reference": payment.Reference,
		"items":             items,
	})
}
