package repos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"chiva/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Get(cartID string) (domain.Cart, error) {
	var c domain.Cart
	err := r.db.Get(&c, `SELECT * FROM carts WHERE id = ?`, cartID)
	return c, err
}

func (r *CartRepo) GetTx(tx *sqlx.Tx, cartID string) (domain.Cart, error) {
	var c domain.Cart
	err := tx.Get(&c, `SELECT * FROM carts WHERE id = ?`, cartID)
	return c, err
}

// EnsureForSession returns the active cart for an anonymous session key,
// creating one on first use.
func (r *CartRepo) EnsureForSession(cartID, sessionKey string) (string, error) {
	var id string
	err := r.db.Get(&id, `
	  SELECT id FROM carts WHERE session_key = ? AND status = 'active'
	  ORDER BY last_activity DESC LIMIT 1
	`, sessionKey)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	_, err = r.db.Exec(`INSERT INTO carts(id, session_key) VALUES(?, ?)`, cartID, sessionKey)
	if err != nil {
		return "", err
	}
	return cartID, nil
}

// EnsureForUser is the authenticated counterpart of EnsureForSession.
func (r *CartRepo) EnsureForUser(cartID, userID string) (string, error) {
	var id string
	err := r.db.Get(&id, `
	  SELECT id FROM carts WHERE user_id = ? AND status = 'active'
	  ORDER BY last_activity DESC LIMIT 1
	`, userID)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	_, err = r.db.Exec(`INSERT INTO carts(id, user_id) VALUES(?, ?)`, cartID, userID)
	if err != nil {
		return "", err
	}
	return cartID, nil
}

// FindActive returns the owner's active cart without creating one.
func (r *CartRepo) FindActive(userID, sessionKey string) (domain.Cart, error) {
	var c domain.Cart
	var err error
	if userID != "" {
		err = r.db.Get(&c, `
		  SELECT * FROM carts WHERE user_id = ? AND status = 'active'
		  ORDER BY last_activity DESC LIMIT 1
		`, userID)
	} else {
		err = r.db.Get(&c, `
		  SELECT * FROM carts WHERE session_key = ? AND status = 'active'
		  ORDER BY last_activity DESC LIMIT 1
		`, sessionKey)
	}
	return c, err
}

// FindLatest returns the owner's most recent cart in any status. Used to tell
// "you already checked out" apart from "you have no cart".
func (r *CartRepo) FindLatest(userID, sessionKey string) (domain.Cart, error) {
	var c domain.Cart
	var err error
	if userID != "" {
		err = r.db.Get(&c, `
		  SELECT * FROM carts WHERE user_id = ?
		  ORDER BY last_activity DESC LIMIT 1
		`, userID)
	} else {
		err = r.db.Get(&c, `
		  SELECT * FROM carts WHERE session_key = ?
		  ORDER BY last_activity DESC LIMIT 1
		`, sessionKey)
	}
	return c, err
}

// AddItem merges into an existing line with the same product/color/size, or
// inserts a new one. Variant columns compare with IS so NULLs match NULLs.
func (r *CartRepo) AddItem(itemID, cartID, productID string, colorID, sizeID *string, qty int, price decimal.Decimal) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.Get(&existing, `
	  SELECT id FROM cart_items
	  WHERE cart_id = ? AND product_id = ? AND color_id IS ? AND size_id IS ?
	`, cartID, productID, colorID, sizeID)
	switch err {
	case nil:
		if _, err := tx.Exec(`
		  UPDATE cart_items SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ?
		`, qty, existing); err != nil {
			return err
		}
	case sql.ErrNoRows:
		if _, err := tx.Exec(`
		  INSERT INTO cart_items(id, cart_id, product_id, color_id, size_id, quantity, price)
		  VALUES(?, ?, ?, ?, ?, ?, ?)
		`, itemID, cartID, productID, colorID, sizeID, qty, price); err != nil {
			return err
		}
	default:
		return err
	}

	if _, err := tx.Exec(`UPDATE carts SET last_activity = CURRENT_TIMESTAMP WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CartRepo) UpdateItemQty(cartID, itemID string, qty int) error {
	res, err := r.db.Exec(`
	  UPDATE cart_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND cart_id = ?
	`, qty, itemID, cartID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	_, err = r.db.Exec(`UPDATE carts SET last_activity = CURRENT_TIMESTAMP WHERE id = ?`, cartID)
	return err
}

func (r *CartRepo) RemoveItem(cartID, itemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND cart_id = ?`, itemID, cartID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE carts SET last_activity = CURRENT_TIMESTAMP WHERE id = ?`, cartID)
	return err
}

func (r *CartRepo) Items(cartID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, `SELECT * FROM cart_items WHERE cart_id = ? ORDER BY created_at`, cartID)
	return out, err
}

// ItemsTx reads the lines inside a caller-held transaction, so checkout sees
// exactly the set it converts.
func (r *CartRepo) ItemsTx(tx *sqlx.Tx, cartID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := tx.Select(&out, `SELECT * FROM cart_items WHERE cart_id = ? ORDER BY created_at`, cartID)
	return out, err
}

// CartItemRow is the read shape for the cart page: live catalog names joined
// in, since a cart is pre-checkout and the catalog is still the truth.
type CartItemRow struct {
	ItemID      string          `db:"item_id" json:"id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	SKU         string          `db:"sku" json:"sku,omitempty"`
	ColorName   string          `db:"color_name" json:"color_name,omitempty"`
	ColorHex    string          `db:"color_hex" json:"color_hex,omitempty"`
	SizeName    string          `db:"size_name" json:"size_name,omitempty"`
	SizeAbbr    string          `db:"size_abbreviation" json:"size_abbreviation,omitempty"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
}

func (r *CartRepo) View(cartID string) ([]CartItemRow, decimal.Decimal, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.id AS item_id, ci.product_id, p.name AS product_name, p.sku,
	         COALESCE(c.name,'')  AS color_name,
	         COALESCE(c.hex_code,'') AS color_hex,
	         COALESCE(s.name,'')  AS size_name,
	         COALESCE(s.abbreviation,'') AS size_abbreviation,
	         ci.quantity, ci.price, (ci.quantity * ci.price) AS subtotal
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id
	  LEFT JOIN colors c ON c.id = ci.color_id
	  LEFT JOIN sizes  s ON s.id = ci.size_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at
	`, cartID); err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range rows {
		total = total.Add(it.Subtotal)
	}
	return rows, total, nil
}

// MarkConverted flips an active cart to converted. Compare-and-set: the
// returned bool is false when the cart was not active, which is how a losing
// concurrent checkout learns it lost.
func (r *CartRepo) MarkConverted(tx *sqlx.Tx, cartID string) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE carts SET status = 'converted', last_activity = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'active'
	`, cartID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// MissingSizeLine is a diagnostic row: a cart line with no size although the
// product is sold in sizes. These should not exist for carts created after
// the size rule landed.
type MissingSizeLine struct {
	CartID      string `db:"cart_id"`
	CartStatus  string `db:"cart_status"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Quantity    int    `db:"quantity"`
}

func (r *CartRepo) MissingSizeLines() ([]MissingSizeLine, error) {
	out := []MissingSizeLine{}
	err := r.db.Select(&out, `
	  SELECT ci.cart_id, ca.status AS cart_status, ci.product_id,
	         p.name AS product_name, ci.quantity
	  FROM cart_items ci
	  JOIN carts ca ON ca.id = ci.cart_id
	  JOIN products p ON p.id = ci.product_id
	  WHERE ci.size_id IS NULL
	    AND EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = ci.product_id)
	`)
	return out, err
}

// AbandonStale marks active carts idle past the cutoff. Returns rows changed.
func (r *CartRepo) AbandonStale(days int) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE carts SET status = 'abandoned'
	  WHERE status = 'active'
	    AND datetime(last_activity) < datetime('now', ?)
	`, fmt.Sprintf("-%d days", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
