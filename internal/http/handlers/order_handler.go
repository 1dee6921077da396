package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"chiva/internal/domain"
	applog "chiva/internal/log"
	"chiva/internal/repos"
	"chiva/internal/services"
)

type OrderHandler struct {
	Orders  *repos.OrderRepo
	Resolve *services.Resolver
}

type orderItemView struct {
	ProductName string               `json:"product_name"`
	SKU         string               `json:"sku,omitempty"`
	Quantity    int                  `json:"quantity"`
	UnitPrice   string               `json:"unit_price"`
	Subtotal    string               `json:"subtotal"`
	Size        services.VariantInfo `json:"size"`
	Color       services.VariantInfo `json:"color"`
}

// Get returns an order by its human-facing number, with size/color resolved
// through the snapshot -> catalog -> payment fallback chain. Attribute gaps
// come back as "unknown", not as an error.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	number := c.Params("number")
	o, items, err := h.Orders.ByNumber(number)
	if err == sql.ErrNoRows {
		return fail(c, fiber.StatusNotFound, "not_found", "order not found")
	}
	if err != nil {
		applog.Error(c, "order.get", err, nil)
		return failErr(c, err)
	}

	views := make([]orderItemView, 0, len(items))
	for _, it := range items {
		views = append(views, h.itemView(it))
	}

	return c.JSON(fiber.Map{
		"order_number":   o.OrderNumber,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"customer_name":  o.CustomerName,
		"shipping_cost":  o.ShippingCost,
		"total_amount":   o.TotalAmount,
		"created_at":     o.CreatedAt,
		"items":          views,
	})
}

// List returns the caller's order history. Only logged-in shoppers have one;
// anonymous sessions get an empty list, since their carts carry no user id.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	uid := c.Get("X-User-Id")
	if uid == "" {
		return c.JSON(fiber.Map{"orders": []domain.Order{}})
	}
	list, err := h.Orders.ListByUser(uid)
	if err != nil {
		applog.Error(c, "order.list", err, nil)
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{"orders": list})
}

func (h *OrderHandler) itemView(it domain.OrderItem) orderItemView {
	return orderItemView{
		ProductName: it.ProductName,
		SKU:         it.SKU,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice.StringFixed(2),
		Subtotal:    it.Subtotal().StringFixed(2),
		Size:        h.Resolve.Size(it),
		Color:       h.Resolve.Color(it),
	}
}
