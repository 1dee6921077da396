package repos

import (
	"github.com/jmoiron/sqlx"

	"chiva/internal/domain"
)

type PaymentRepo struct{ db *sqlx.DB }

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Create(p domain.Payment) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO payments(id, order_id, cart_id, reference, amount, status, request_data)
	  VALUES(:id, :order_id, :cart_id, :reference, :amount, :status, :request_data)
	`, p)
	return err
}

func (r *PaymentRepo) Get(id string) (domain.Payment, error) {
	var p domain.Payment
	err := r.db.Get(&p, `SELECT * FROM payments WHERE id = ?`, id)
	return p, err
}

// ByReference looks a payment up by the processor's transaction reference,
// which is what webhook callbacks carry.
func (r *PaymentRepo) ByReference(ref string) (domain.Payment, error) {
	var p domain.Payment
	err := r.db.Get(&p, `SELECT * FROM payments WHERE reference = ?`, ref)
	return p, err
}

func (r *PaymentRepo) LatestForOrder(orderID string) (domain.Payment, error) {
	var p domain.Payment
	err := r.db.Get(&p, `
	  SELECT * FROM payments WHERE order_id = ?
	  ORDER BY datetime(created_at) DESC LIMIT 1
	`, orderID)
	return p, err
}

func (r *PaymentRepo) SetOrder(paymentID, orderID string) error {
	_, err := r.db.Exec(`
	  UPDATE payments SET order_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, orderID, paymentID)
	return err
}

func (r *PaymentRepo) SetStatus(paymentID, status string) error {
	_, err := r.db.Exec(`
	  UPDATE payments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, paymentID)
	return err
}

func (r *PaymentRepo) ListLatest(limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 10
	}
	out := []domain.Payment{}
	err := r.db.Select(&out, `
	  SELECT * FROM payments ORDER BY datetime(created_at) DESC LIMIT ?
	`, limit)
	return out, err
}
