package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"chiva/internal/notify"
	"chiva/internal/repos"
	"chiva/internal/services"
)

// memdb opens an in-memory store with the full schema and a small catalog:
// a dress sold in sizes M/G and color Azul, and a shirt with no variants.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// :memory: is per-connection; keep the pool at one
	db.SetMaxOpenConns(1)

	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}

	seed := `
	INSERT INTO categories(id,name,slug) VALUES ('cat-vestidos','Vestidos','vestidos');
	INSERT INTO colors(id,name,hex_code) VALUES ('col-azul','Azul','#1E40AF');
	INSERT INTO sizes(id,name,abbreviation,sort_order) VALUES
	  ('size-m','Médio','M',3),
	  ('size-g','Grande','G',4);
	INSERT INTO products(id,category_id,name,slug,sku,price,stock) VALUES
	  ('prd-vestido','cat-vestidos','Vestido Azul','vestido-azul','VES-AZ-001',2500.00,10),
	  ('prd-camisa','cat-vestidos','Camisa Branca','camisa-branca','CAM-BR-001',1200.00,5);
	INSERT INTO product_sizes(product_id,size_id) VALUES
	  ('prd-vestido','size-m'),
	  ('prd-vestido','size-g');
	INSERT INTO product_colors(product_id,color_id) VALUES ('prd-vestido','col-azul');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}
	return db
}

type fixture struct {
	db       *sqlx.DB
	carts    *repos.CartRepo
	catalog  *repos.CatalogRepo
	orders   *repos.OrderRepo
	payments *repos.PaymentRepo

	cart     *services.CartService
	checkout *services.CheckoutService
	payment  *services.PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb(t)
	f := &fixture{
		db:       db,
		carts:    repos.NewCartRepo(db),
		catalog:  repos.NewCatalogRepo(db),
		orders:   repos.NewOrderRepo(db),
		payments: repos.NewPaymentRepo(db),
	}
	f.cart = services.NewCartService(f.carts, f.catalog)
	f.checkout = services.NewCheckoutService(f.carts, f.catalog, f.orders, notify.LogMailer{}, decimal.Zero)
	f.payment = services.NewPaymentService(f.payments, f.orders)
	return f
}

var shipTo = services.Shipping{
	Name:    "Ana Macamo",
	Email:   "ana@example.test",
	Address: "Av. Julius Nyerere 123",
	City:    "Maputo",
}
