package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	Active    bool   `db:"active" json:"active"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
	CreatedAt string `db:"created_at" json:"-"`
	UpdatedAt string `db:"updated_at" json:"-"`
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	CategoryID  string          `db:"category_id" json:"category_id"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	SKU         string          `db:"sku" json:"sku"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Active      bool            `db:"active" json:"active"`
	CreatedAt   string          `db:"created_at" json:"-"`
	UpdatedAt   string          `db:"updated_at" json:"-"`
}

// Visible reports whether non-admin callers may see the product.
func (p Product) Visible() bool { return p.Active && p.Stock > 0 }

type Color struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	HexCode string `db:"hex_code" json:"hex_code"`
}

type Size struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	SortOrder    int    `db:"sort_order" json:"sort_order"`
	Active       bool   `db:"active" json:"-"`
}
