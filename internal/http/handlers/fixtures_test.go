package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"chiva/internal/config"
	"chiva/internal/http/handlers"
	"chiva/internal/repos"
)

const adminToken = "test-admin-token"

// newApp wires the full route table against an in-memory store with a small
// seeded catalog, mirroring the server wiring minus the rate limiters.
func newApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
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
	  ('prd-camisa','cat-vestidos','Camisa Branca','camisa-branca','CAM-BR-001',1200.00,5),
	  ('prd-esgotado','cat-vestidos','Saia Esgotada','saia-esgotada','SAI-ES-001',900.00,0);
	INSERT INTO product_sizes(product_id,size_id) VALUES
	  ('prd-vestido','size-m'),
	  ('prd-vestido','size-g');
	INSERT INTO product_colors(product_id,color_id) VALUES ('prd-vestido','col-azul');
	INSERT INTO users(id,email) VALUES ('u-1','ana@example.test');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		BaseURL:     "http://shop.test",
		AdminToken:  adminToken,
		AdminEmails: []string{"ana@example.test"},
	}
	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()

	api := app.Group("/api/v1")
	api.Get("/products", deps.CatalogHandler.List)
	api.Get("/products/:slug", deps.CatalogHandler.Detail)
	api.Get("/categories", deps.CatalogHandler.Categories)
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Patch("/cart/items/:itemID", deps.CartHandler.Update)
	api.Delete("/cart/items/:itemID", deps.CartHandler.Remove)
	api.Post("/checkout", deps.CheckoutHandler.Place)
	api.Get("/orders", deps.OrderHandler.List)
	api.Get("/orders/:number", deps.OrderHandler.Get)
	api.Post("/payments/webhook", deps.PaymentHandler.Webhook)

	admin := app.Group("/admin", handlers.RequireAdmin(cfg.AdminToken))
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.SetOrderStatus)
	admin.Get("/orders/missing-sizes", deps.AdminHandler.MissingSizes)
	admin.Post("/users/reconcile", deps.AdminHandler.ReconcileAdmins)

	app.Get("/sitemap.xml", deps.SitemapHandler.Serve)

	return app, db
}

func jsonBody(t *testing.T, body any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(raw)
}

// doJSON issues a request as the logged-in user u-1 and decodes the JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-Id", "u-1")
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("bad JSON body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

var shipBody = map[string]any{
	"name":    "Ana Macamo",
	"email":   "ana@example.test",
	"address": "Av. Julius Nyerere 123",
	"city":    "Maputo",
}

// placeOrder pushes a sized dress through cart and checkout and returns the
// order number and payment reference.
func placeOrder(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()
	status, _ := doJSON(t, app, "POST", "/api/v1/cart/items", map[string]any{
		"product_id": "prd-vestido", "color_id": "col-azul", "size_id": "size-m", "quantity": 2,
	})
	if status != 200 {
		t.Fatalf("cart add: status %d", status)
	}
	status, body := doJSON(t, app, "POST", "/api/v1/checkout", shipBody)
	if status != 201 {
		t.Fatalf("checkout: status %d body %v", status, body)
	}
	number, _ := body["order_number"].(string)
	ref, _ := body["payment_reference"].(string)
	if number == "" || ref == "" {
		t.Fatalf("incomplete checkout response: %v", body)
	}
	return number, ref
}
