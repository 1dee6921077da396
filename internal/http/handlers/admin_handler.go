package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"chiva/internal/domain"
	applog "chiva/internal/log"
	"chiva/internal/repos"
	"chiva/internal/services"
)

// RequireAdmin gates operator routes on a shared token. Identity provisioning
// is external; this is deliberately not a login system.
func RequireAdmin(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			applog.Security(c, "admin.denied", nil)
			return fail(c, fiber.StatusNotFound, "not_found", "not found")
		}
		return c.Next()
	}
}

type AdminHandler struct {
	Orders      *repos.OrderRepo
	Carts       *repos.CartRepo
	Admin       *services.AdminService
	AdminEmails []string
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	list, err := h.Orders.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "admin.orders", err, nil)
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{"orders": list})
}

func (h *AdminHandler) SetOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "invalid body")
	}
	switch req.Status {
	case domain.OrderStatusPending, domain.OrderStatusProcessing,
		domain.OrderStatusShipped, domain.OrderStatusDelivered, domain.OrderStatusCancelled:
	default:
		return fail(c, fiber.StatusBadRequest, "bad_request", "unknown status")
	}

	orderID := c.Params("id")
	if err := h.Orders.SetStatus(orderID, req.Status); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": orderID, "status": req.Status})
	return c.JSON(fiber.Map{"ok": true})
}

// MissingSizes reports order items with no recoverable size FK or snapshot,
// the rows the payment-payload fallback exists for.
func (h *AdminHandler) MissingSizes(c *fiber.Ctx) error {
	items, err := h.Orders.MissingSizeItems()
	if err != nil {
		applog.Error(c, "admin.missing_sizes", err, nil)
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{"count": len(items), "items": items})
}

func (h *AdminHandler) ReconcileAdmins(c *fiber.Ctx) error {
	rep, err := h.Admin.Reconcile(h.AdminEmails)
	if err != nil {
		applog.Error(c, "admin.reconcile", err, nil)
		return failErr(c, err)
	}
	applog.Audit(c, "admin.reconcile", map[string]any{
		"granted": len(rep.Granted), "revoked": len(rep.Revoked),
	})
	return c.JSON(fiber.Map{"granted": rep.Granted, "revoked": rep.Revoked, "total": rep.Total})
}
