package repos

import (
	"github.com/jmoiron/sqlx"

	"chiva/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Begin starts the transaction a checkout runs under: the cart CAS, the order
// header and every snapshot item commit together or not at all.
func (r *OrderRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

func (r *OrderRepo) Create(tx *sqlx.Tx, o domain.Order) error {
	_, err := tx.NamedExec(`
	  INSERT INTO orders
	    (id, order_number, cart_id, user_id, status, payment_status,
	     customer_name, customer_email, shipping_address, shipping_city,
	     shipping_cost, total_amount)
	  VALUES
	    (:id, :order_number, :cart_id, :user_id, :status, :payment_status,
	     :customer_name, :customer_email, :shipping_address, :shipping_city,
	     :shipping_cost, :total_amount)
	`, o)
	return err
}

func (r *OrderRepo) InsertItem(tx *sqlx.Tx, it domain.OrderItem) error {
	_, err := tx.NamedExec(`
	  INSERT INTO order_items
	    (id, order_id, product_id, color_id, size_id,
	     product_name, sku, color_name, color_hex, size_name, size_abbreviation,
	     quantity, unit_price)
	  VALUES
	    (:id, :order_id, :product_id, :color_id, :size_id,
	     :product_name, :sku, :color_name, :color_hex, :size_name, :size_abbreviation,
	     :quantity, :unit_price)
	`, it)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT * FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.ItemsOf(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ByNumber(orderNumber string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT * FROM orders WHERE order_number = ?`, orderNumber); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.ItemsOf(o.ID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ItemsOf(orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := r.db.Select(&items, `
	  SELECT * FROM order_items WHERE order_id = ? ORDER BY product_name
	`, orderID)
	return items, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT * FROM orders ORDER BY datetime(created_at) DESC LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT * FROM orders WHERE user_id = ? ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) SetPaymentStatus(orderID, payStatus string) error {
	_, err := r.db.Exec(`UPDATE orders SET payment_status = ? WHERE id = ?`, payStatus, orderID)
	return err
}

func (r *OrderRepo) SetStatus(orderID, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	return err
}

// MissingSizeItems lists order items with neither a size FK nor snapshot size
// text. These are the historical rows the diagnostics commands report on.
func (r *OrderRepo) MissingSizeItems() ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.db.Select(&out, `
	  SELECT * FROM order_items
	  WHERE size_id IS NULL AND size_name = '' AND size_abbreviation = ''
	`)
	return out, err
}
