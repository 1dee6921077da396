package handlers_test

import (
	"testing"
)

func TestOrderGetResolvesVariants(t *testing.T) {
	app, _ := newApp(t)
	number, _ := placeOrder(t, app)

	status, body := doJSON(t, app, "GET", "/api/v1/orders/"+number, nil)
	if status != 200 {
		t.Fatalf("status %d body %v", status, body)
	}
	if body["order_number"] != number {
		t.Fatalf("order_number = %v", body["order_number"])
	}

	items := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", body["items"])
	}
	it := items[0].(map[string]any)
	if it["unit_price"] != "2500.00" || it["subtotal"] != "5000.00" {
		t.Fatalf("money fields: %v", it)
	}
	size := it["size"].(map[string]any)
	if size["abbreviation"] != "M" || size["source"] != "snapshot" {
		t.Fatalf("size = %v", size)
	}
	color := it["color"].(map[string]any)
	if color["name"] != "Azul" || color["source"] != "snapshot" {
		t.Fatalf("color = %v", color)
	}
}

// Snapshot columns survive catalog edits: renaming the size later must not
// change what the order shows.
func TestOrderGetImmuneToCatalogRename(t *testing.T) {
	app, db := newApp(t)
	number, _ := placeOrder(t, app)

	if _, err := db.Exec(`UPDATE sizes SET name='Renomeado', abbreviation='RN' WHERE id='size-m'`); err != nil {
		t.Fatal(err)
	}

	_, body := doJSON(t, app, "GET", "/api/v1/orders/"+number, nil)
	size := body["items"].([]any)[0].(map[string]any)["size"].(map[string]any)
	if size["name"] != "Médio" || size["abbreviation"] != "M" {
		t.Fatalf("snapshot leaked the rename: %v", size)
	}
}

func TestOrderListByUser(t *testing.T) {
	app, _ := newApp(t)
	number, _ := placeOrder(t, app)

	status, body := doJSON(t, app, "GET", "/api/v1/orders", nil)
	if status != 200 {
		t.Fatalf("status %d body %v", status, body)
	}
	orders := body["orders"].([]any)
	if len(orders) != 1 || orders[0].(map[string]any)["order_number"] != number {
		t.Fatalf("orders = %v", body["orders"])
	}
}

func TestOrderGetUnknownNumber(t *testing.T) {
	app, _ := newApp(t)

	status, _ := doJSON(t, app, "GET", "/api/v1/orders/CHV-20240101-XXXXXX", nil)
	if status != 404 {
		t.Fatalf("status %d, want 404", status)
	}
}
