package services_test

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chiva/internal/domain"
	"chiva/internal/services"
)

func newResolver(f *fixture) *services.Resolver {
	return services.NewResolver(f.catalog, f.payments)
}

// insertPayment stores a payment with a hand-built request payload for an
// existing order.
func insertPayment(t *testing.T, f *fixture, orderID, requestData string) {
	t.Helper()
	require.NoError(t, f.payments.Create(domain.Payment{
		ID:          uuid.NewString(),
		OrderID:     sql.NullString{String: orderID, Valid: true},
		Reference:   "pay-" + uuid.NewString(),
		Amount:      decimal.NewFromInt(100),
		Status:      domain.PaymentStatusPending,
		RequestData: requestData,
	}))
}

func TestResolveSize_SnapshotWins(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)

	got := r.Size(domain.OrderItem{
		SizeID:   sql.NullString{String: "size-g", Valid: true}, // stale FK must not win
		SizeName: "Médio",
		SizeAbbr: "M",
	})
	assert.Equal(t, services.SourceSnapshot, got.Source)
	assert.Equal(t, "Médio", got.Name)
	assert.Equal(t, "M", got.Abbr)
}

func TestResolveSize_CatalogFallback(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)

	got := r.Size(domain.OrderItem{
		SizeID: sql.NullString{String: "size-m", Valid: true},
	})
	assert.Equal(t, services.SourceCatalog, got.Source)
	assert.Equal(t, "Médio", got.Name)
	assert.Equal(t, "M", got.Abbr)
}

func TestResolveSize_UnknownMarkerSkipsSnapshot(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)

	// the marker is not a real snapshot; the live FK still answers
	got := r.Size(domain.OrderItem{
		SizeID:   sql.NullString{String: "size-g", Valid: true},
		SizeName: domain.AttrUnknown,
	})
	assert.Equal(t, services.SourceCatalog, got.Source)
	assert.Equal(t, "Grande", got.Name)
}

func TestResolveSize_PaymentPayloadFallback(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)
	order, _ := placeOrder(t, f)

	insertPayment(t, f, order.ID,
		`{"reference":"x","items":[{"product_id":"prd-vestido","quantity":2,"size_abbreviation":"M"}]}`)

	got := r.Size(domain.OrderItem{
		OrderID:   order.ID,
		ProductID: sql.NullString{String: "prd-vestido", Valid: true},
	})
	assert.Equal(t, services.SourcePayment, got.Source)
	assert.Equal(t, "M", got.Abbr)
}

func TestResolveSize_PaymentMetaEnvelopeAndSizeKey(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)
	order, _ := placeOrder(t, f)

	// older payloads nest items under meta and call the abbreviation "size"
	insertPayment(t, f, order.ID,
		`{"meta":{"items":[{"product":"prd-vestido","size":"G"}]}}`)

	got := r.Size(domain.OrderItem{
		OrderID:   order.ID,
		ProductID: sql.NullString{String: "prd-vestido", Valid: true},
	})
	assert.Equal(t, services.SourcePayment, got.Source)
	assert.Equal(t, "G", got.Abbr)
}

func TestResolveSize_PaymentSizeIDLooksUpCatalog(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)
	order, _ := placeOrder(t, f)

	insertPayment(t, f, order.ID,
		`{"items":[{"product_id":"prd-vestido","size_id":"size-g"}]}`)

	got := r.Size(domain.OrderItem{
		OrderID:   order.ID,
		ProductID: sql.NullString{String: "prd-vestido", Valid: true},
	})
	assert.Equal(t, services.SourcePayment, got.Source)
	assert.Equal(t, "Grande", got.Name)
}

func TestResolveSize_NothingRecoverable(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)

	got := r.Size(domain.OrderItem{OrderID: "ord-nope"})
	assert.Equal(t, services.SourceUnknown, got.Source)
	assert.Equal(t, domain.AttrUnknown, got.Name)
}

func TestResolveColor_Chain(t *testing.T) {
	f := newFixture(t)
	r := newResolver(f)

	snap := r.Color(domain.OrderItem{ColorName: "Azul", ColorHex: "#1E40AF"})
	assert.Equal(t, services.SourceSnapshot, snap.Source)
	assert.Equal(t, "#1E40AF", snap.Hex)

	cat := r.Color(domain.OrderItem{
		ColorID:   sql.NullString{String: "col-azul", Valid: true},
		ColorName: domain.AttrUnknown,
	})
	assert.Equal(t, services.SourceCatalog, cat.Source)
	assert.Equal(t, "Azul", cat.Name)

	order, _ := placeOrder(t, f)
	insertPayment(t, f, order.ID,
		`{"items":[{"product_id":"prd-vestido","color_name":"Azul Marinho"}]}`)
	pay := r.Color(domain.OrderItem{
		OrderID:   order.ID,
		ProductID: sql.NullString{String: "prd-vestido", Valid: true},
	})
	assert.Equal(t, services.SourcePayment, pay.Source)
	assert.Equal(t, "Azul Marinho", pay.Name)

	none := r.Color(domain.OrderItem{OrderID: "ord-nope"})
	assert.Equal(t, services.SourceUnknown, none.Source)
}
