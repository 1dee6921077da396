package repos

import (
	"github.com/jmoiron/sqlx"

	"chiva/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) All() ([]domain.User, error) {
	out := []domain.User{}
	err := r.db.Select(&out, `
	  SELECT id, email, name, password_hash, is_admin FROM users ORDER BY email
	`)
	return out, err
}

func (r *UserRepo) ByEmail(email string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
	  SELECT id, email, name, password_hash, is_admin FROM users WHERE LOWER(email) = LOWER(?)
	`, email)
	return u, err
}

func (r *UserRepo) SetAdmin(id string, admin bool) error {
	_, err := r.db.Exec(`
	  UPDATE users SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, admin, id)
	return err
}
