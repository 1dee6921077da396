package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "chiva/internal/log"
	"chiva/internal/services"
	"chiva/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// ident resolves the cart owner. Authentication is external: a trusted
// upstream sets X-User-Id for logged-in shoppers; everyone else gets a
// session cookie.
func ident(c *fiber.Ctx) services.Identity {
	if uid := c.Get("X-User-Id"); uid != "" {
		return services.Identity{UserID: uid}
	}
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return services.Identity{SessionKey: sid}
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	ColorID   string `json:"color_id"`
	SizeID    string `json:"size_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addItemReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "invalid body")
	}
	if _, ok := validate.ID(req.ProductID); !ok {
		return fail(c, fiber.StatusBadRequest, "bad_request", "missing product_id")
	}
	if !validate.Qty(req.Quantity) {
		return failErr(c, services.ErrBadQuantity)
	}

	id := ident(c)
	if err := h.Cart.Add(id, req.ProductID, req.ColorID, req.SizeID, req.Quantity); err != nil {
		applog.Security(c, "cart.add.fail", map[string]any{"product_id": req.ProductID, "error": err.Error()})
		return failErr(c, err)
	}
	return h.view(c, id)
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("itemID"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "bad_request", "invalid item id")
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "invalid body")
	}
	if !validate.Qty(req.Quantity) {
		return failErr(c, services.ErrBadQuantity)
	}

	id := ident(c)
	if err := h.Cart.UpdateQty(id, itemID, req.Quantity); err != nil {
		return failErr(c, err)
	}
	return h.view(c, id)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("itemID"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "bad_request", "invalid item id")
	}
	id := ident(c)
	if err := h.Cart.Remove(id, itemID); err != nil {
		return failErr(c, err)
	}
	return h.view(c, id)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return h.view(c, ident(c))
}

func (h *CartHandler) view(c *fiber.Ctx, id services.Identity) error {
	cv, err := h.Cart.View(id)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{
		"cart_id": cv.CartID,
		"items":   cv.Items,
		"total":   cv.Total,
	})
}
