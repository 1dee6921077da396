package handlers

import (
	"github.com/jmoiron/sqlx"

	"chiva/internal/cache"
	"chiva/internal/config"
	"chiva/internal/notify"
	"chiva/internal/repos"
	"chiva/internal/services"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	OrderHandler    *OrderHandler
	PaymentHandler  *PaymentHandler
	AdminHandler    *AdminHandler
	SitemapHandler  *SitemapHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catalogRepo := repos.NewCatalogRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	paymentRepo := repos.NewPaymentRepo(db)
	userRepo := repos.NewUserRepo(db)

	var store cache.Cache
	if cfg.RedisAddr != "" {
		store = cache.NewRedis(cfg.RedisAddr)
	} else {
		store = cache.NewMemory()
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.BrevoAPIKey != "" {
		mailer = notify.NewBrevoMailer(cfg.BrevoAPIKey, cfg.BrevoSender)
	}

	cartSvc := services.NewCartService(cartRepo, catalogRepo)
	checkoutSvc := services.NewCheckoutService(cartRepo, catalogRepo, orderRepo, mailer, cfg.ShippingCost)
	paymentSvc := services.NewPaymentService(paymentRepo, orderRepo)
	resolver := services.NewResolver(catalogRepo, paymentRepo)
	adminSvc := services.NewAdminService(userRepo)

	return &Deps{
		CatalogHandler:  &CatalogHandler{Catalog: catalogRepo, Cache: store},
		CartHandler:     &CartHandler{Cart: cartSvc},
		CheckoutHandler: &CheckoutHandler{Checkout: checkoutSvc, Payments: paymentSvc},
		OrderHandler:    &OrderHandler{Orders: orderRepo, Resolve: resolver},
		PaymentHandler:  &PaymentHandler{Payments: paymentSvc},
		AdminHandler:    &AdminHandler{Orders: orderRepo, Carts: cartRepo, Admin: adminSvc, AdminEmails: cfg.AdminEmails},
		SitemapHandler:  &SitemapHandler{Catalog: catalogRepo, Cache: store, BaseURL: cfg.BaseURL},
	}
}
