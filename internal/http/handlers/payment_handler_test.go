package handlers_test

import (
	"testing"
)

func TestWebhookCompletesOrder(t *testing.T) {
	app, _ := newApp(t)
	number, ref := placeOrder(t, app)

	status, body := doJSON(t, app, "POST", "/api/v1/payments/webhook", map[string]any{
		"reference": ref, "status": "success", "amount": "5000",
	})
	if status != 200 {
		t.Fatalf("status %d body %v", status, body)
	}
	if body["applied"] != true {
		t.Fatalf("applied = %v, want true", body["applied"])
	}

	_, order := doJSON(t, app, "GET", "/api/v1/orders/"+number, nil)
	if order["payment_status"] != "paid" {
		t.Fatalf("payment_status = %v, want paid", order["payment_status"])
	}
	if order["status"] != "processing" {
		t.Fatalf("status = %v, want processing", order["status"])
	}
}

func TestWebhookDuplicateDeliveryAcknowledged(t *testing.T) {
	app, _ := newApp(t)
	_, ref := placeOrder(t, app)

	payload := map[string]any{"reference": ref, "status": "completed"}
	doJSON(t, app, "POST", "/api/v1/payments/webhook", payload)

	status, body := doJSON(t, app, "POST", "/api/v1/payments/webhook", payload)
	if status != 200 {
		t.Fatalf("replay must be 200, got %d", status)
	}
	if body["applied"] != false {
		t.Fatalf("replay applied = %v, want false", body["applied"])
	}
}

func TestWebhookTerminalConflict(t *testing.T) {
	app, _ := newApp(t)
	_, ref := placeOrder(t, app)

	doJSON(t, app, "POST", "/api/v1/payments/webhook", map[string]any{"reference": ref, "status": "completed"})

	status, body := doJSON(t, app, "POST", "/api/v1/payments/webhook", map[string]any{"reference": ref, "status": "failed"})
	if status != 409 {
		t.Fatalf("status %d, want 409 (body %v)", status, body)
	}
	if body["error"] != "status_conflict" {
		t.Fatalf("error = %v, want status_conflict", body["error"])
	}
}

func TestWebhookUnknownReference(t *testing.T) {
	app, _ := newApp(t)

	status, body := doJSON(t, app, "POST", "/api/v1/payments/webhook", map[string]any{
		"reference": "pay-nope", "status": "completed",
	})
	if status != 404 {
		t.Fatalf("status %d, want 404 (body %v)", status, body)
	}
}

func TestWebhookMalformedPayload(t *testing.T) {
	app, _ := newApp(t)

	status, body := doJSON(t, app, "POST", "/api/v1/payments/webhook", map[string]any{"status": "completed"})
	if status != 400 {
		t.Fatalf("status %d, want 400 (body %v)", status, body)
	}
	if body["error"] != "malformed_event" {
		t.Fatalf("error = %v, want malformed_event", body["error"])
	}
}
