package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PayStatusPending = "pending"
	PayStatusPaid    = "paid"
	PayStatusFailed  = "failed"
)

// AttrUnknown marks snapshot fields whose source row was already gone at
// conversion time. An explicit marker, not an ambiguous empty string.
const AttrUnknown = "unknown"

type Order struct {
	ID            string          `db:"id" json:"id"`
	OrderNumber   string          `db:"order_number" json:"order_number"`
	CartID        string          `db:"cart_id" json:"cart_id"`
	UserID        sql.NullString  `db:"user_id" json:"-"`
	Status        string          `db:"status" json:"status"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	CustomerEmail string          `db:"customer_email" json:"customer_email"`
	ShippingAddr  string          `db:"shipping_address" json:"shipping_address"`
	ShippingCity  string          `db:"shipping_city" json:"shipping_city"`
	ShippingCost  decimal.Decimal `db:"shipping_cost" json:"shipping_cost"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt     string          `db:"created_at" json:"created_at"`
}

// OrderItem carries a denormalized copy of the catalog attributes taken at
// conversion time. The FKs are kept for convenience while the referenced rows
// exist; the snapshot columns are authoritative for display and history.
type OrderItem struct {
	ID        string         `db:"id" json:"id"`
	OrderID   string         `db:"order_id" json:"-"`
	ProductID sql.NullString `db:"product_id" json:"-"`
	ColorID   sql.NullString `db:"color_id" json:"-"`
	SizeID    sql.NullString `db:"size_id" json:"-"`

	ProductName string `db:"product_name" json:"product_name"`
	SKU         string `db:"sku" json:"sku,omitempty"`
	ColorName   string `db:"color_name" json:"color_name,omitempty"`
	ColorHex    string `db:"color_hex" json:"color_hex,omitempty"`
	SizeName    string `db:"size_name" json:"size_name,omitempty"`
	SizeAbbr    string `db:"size_abbreviation" json:"size_abbreviation,omitempty"`

	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
