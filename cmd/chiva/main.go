package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"chiva/internal/config"
	"chiva/internal/http/handlers"
	applog "chiva/internal/log"
	"chiva/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal",
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg)

	// Public catalog
	api := app.Group("/api/v1")
	api.Get("/products", deps.CatalogHandler.List)
	api.Get("/products/:slug", deps.CatalogHandler.Detail)
	api.Get("/categories", deps.CatalogHandler.Categories)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Patch("/cart/items/:itemID", deps.CartHandler.Update)
	api.Delete("/cart/items/:itemID", deps.CartHandler.Remove)

	// Checkout & orders
	api.Post("/checkout", deps.CheckoutHandler.Place)
	api.Get("/orders", deps.OrderHandler.List)
	api.Get("/orders/:number", deps.OrderHandler.Get)

	// Processor callbacks (throttled separately; retried by the processor)
	api.Post("/payments/webhook", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.webhook.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited"})
		},
	}), deps.PaymentHandler.Webhook)

	// Operator routes
	admin := app.Group("/admin", handlers.RequireAdmin(cfg.AdminToken))
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.SetOrderStatus)
	admin.Get("/orders/missing-sizes", deps.AdminHandler.MissingSizes)
	admin.Post("/users/reconcile", deps.AdminHandler.ReconcileAdmins)

	// SEO & health
	app.Get("/sitemap.xml", deps.SitemapHandler.Serve)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
