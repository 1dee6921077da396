package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// TerminalPaymentStatus reports whether a processor status may no longer change.
func TerminalPaymentStatus(s string) bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Payment records one payment attempt against an order. CartID is a transient
// debugging aid from before the order exists; nothing should depend on it.
// RequestData holds the raw processor payload verbatim, which doubles as the
// last-resort source for size/color attributes (see services.Resolver).
type Payment struct {
	ID          string          `db:"id"`
	OrderID     sql.NullString  `db:"order_id"`
	CartID      sql.NullString  `db:"cart_id"`
	Reference   string          `db:"reference"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
	RequestData string          `db:"request_data"` // raw JSON
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}
