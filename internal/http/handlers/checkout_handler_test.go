package handlers_test

import (
	"testing"
)

func TestCheckoutPlace(t *testing.T) {
	app, _ := newApp(t)

	_, body := doJSON(t, app, "POST", "/api/v1/cart/items", map[string]any{
		"product_id": "prd-vestido", "color_id": "col-azul", "size_id": "size-m", "quantity": 2,
	})
	if body["error"] != nil {
		t.Fatalf("cart add failed: %v", body)
	}

	status, body := doJSON(t, app, "POST", "/api/v1/checkout", shipBody)
	if status != 201 {
		t.Fatalf("status %d body %v", status, body)
	}
	if body["order_number"] == "" || body["payment_reference"] == "" {
		t.Fatalf("incomplete response: %v", body)
	}
	if body["total_amount"] != "5000" {
		t.Fatalf("total_amount = %v, want 5000", body["total_amount"])
	}
	items := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", body["items"])
	}
	it := items[0].(map[string]any)
	if it["product_name"] != "Vestido Azul" || it["size_abbreviation"] != "M" || it["color_name"] != "Azul" {
		t.Fatalf("snapshot fields missing from response item: %v", it)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	app, _ := newApp(t)

	status, body := doJSON(t, app, "POST", "/api/v1/checkout", shipBody)
	if status != 400 {
		t.Fatalf("status %d, want 400", status)
	}
	if body["error"] != "empty_cart" {
		t.Fatalf("error = %v, want empty_cart", body["error"])
	}
}

func TestCheckoutTwiceConflicts(t *testing.T) {
	app, _ := newApp(t)
	placeOrder(t, app)

	status, body := doJSON(t, app, "POST", "/api/v1/checkout", shipBody)
	if status != 409 {
		t.Fatalf("status %d, want 409 (body %v)", status, body)
	}
	if body["error"] != "already_converted" {
		t.Fatalf("error = %v, want already_converted", body["error"])
	}
}

func TestCheckoutRejectsBadShipping(t *testing.T) {
	app, _ := newApp(t)
	doJSON(t, app, "POST", "/api/v1/cart/items", map[string]any{"product_id": "prd-camisa", "quantity": 1})

	bad := map[string]any{"name": "Ana", "email": "not-an-email", "address": "x", "city": "Maputo"}
	status, body := doJSON(t, app, "POST", "/api/v1/checkout", bad)
	if status != 400 {
		t.Fatalf("status %d, want 400 (body %v)", status, body)
	}
}
