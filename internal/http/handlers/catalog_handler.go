package handlers

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"chiva/internal/cache"
	applog "chiva/internal/log"
	"chiva/internal/repos"
	"chiva/internal/validate"
)

type CatalogHandler struct {
	Catalog *repos.CatalogRepo
	Cache   cache.Cache
}

const productListTTL = 2 * time.Minute

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	const key = "catalog:products"
	if h.Cache != nil {
		if cached, err := h.Cache.Get(c.Context(), key); err == nil && cached != "" {
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	prods, err := h.Catalog.VisibleProducts()
	if err != nil {
		applog.Error(c, "catalog.list", err, nil)
		return failErr(c, err)
	}
	body, err := json.Marshal(fiber.Map{"products": prods})
	if err != nil {
		return failErr(c, err)
	}
	if h.Cache != nil {
		_ = h.Cache.Set(c.Context(), key, string(body), productListTTL)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(body)
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	slug, ok := validate.ID(c.Params("slug"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "not_found", "product not found")
	}

	p, err := h.Catalog.ProductBySlug(slug)
	if err == sql.ErrNoRows || (err == nil && !p.Visible()) {
		return fail(c, fiber.StatusNotFound, "not_found", "product not found")
	}
	if err != nil {
		applog.Error(c, "catalog.detail", err, nil)
		return failErr(c, err)
	}

	colors, err := h.Catalog.ColorsFor(p.ID)
	if err != nil {
		return failErr(c, err)
	}
	sizes, err := h.Catalog.SizesFor(p.ID)
	if err != nil {
		return failErr(c, err)
	}

	return c.JSON(fiber.Map{
		"product": p,
		"colors":  colors,
		"sizes":   sizes,
		// products with sizes reject cart adds without one
		"size_required": len(sizes) > 0,
	})
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "catalog.categories", err, nil)
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}
