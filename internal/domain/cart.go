package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const (
	CartStatusActive    = "active"
	CartStatusConverted = "converted"
	CartStatusAbandoned = "abandoned"
)

// Cart belongs to a user OR an anonymous session key, never both.
type Cart struct {
	ID           string         `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	SessionKey   sql.NullString `db:"session_key"`
	Status       string         `db:"status"`
	CreatedAt    string         `db:"created_at"`
	LastActivity string         `db:"last_activity"`
}

type CartItem struct {
	ID        string          `db:"id"`
	CartID    string          `db:"cart_id"`
	ProductID string          `db:"product_id"`
	ColorID   sql.NullString  `db:"color_id"`
	SizeID    sql.NullString  `db:"size_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"` // unit price at add time
	CreatedAt string          `db:"created_at"`
	UpdatedAt string          `db:"updated_at"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
