package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"chiva/internal/cache"
	applog "chiva/internal/log"
	"chiva/internal/repos"
	"chiva/internal/sitemap"
)

type SitemapHandler struct {
	Catalog *repos.CatalogRepo
	Cache   cache.Cache
	BaseURL string
}

const sitemapTTL = 30 * time.Minute

func (h *SitemapHandler) Serve(c *fiber.Ctx) error {
	const key = "sitemap:xml"
	if h.Cache != nil {
		if cached, err := h.Cache.Get(c.Context(), key); err == nil && cached != "" {
			c.Set("Content-Type", "application/xml")
			return c.SendString(cached)
		}
	}

	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "sitemap.categories", err, nil)
		return failErr(c, err)
	}
	prods, err := h.Catalog.VisibleProducts()
	if err != nil {
		applog.Error(c, "sitemap.products", err, nil)
		return failErr(c, err)
	}

	body, err := sitemap.Build(h.BaseURL, cats, prods)
	if err != nil {
		return failErr(c, err)
	}
	if h.Cache != nil {
		_ = h.Cache.Set(c.Context(), key, string(body), sitemapTTL)
	}
	c.Set("Content-Type", "application/xml")
	return c.Send(body)
}
