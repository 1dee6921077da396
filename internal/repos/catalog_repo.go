package repos

import (
	"github.com/jmoiron/sqlx"

	"chiva/internal/domain"
)

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) Product(id string) (domain.Product, error) { return getProduct(r.db, id) }

// ProductTx reads within a caller-held transaction, for code that must see a
// consistent snapshot (checkout).
func (r *CatalogRepo) ProductTx(tx *sqlx.Tx, id string) (domain.Product, error) {
	return getProduct(tx, id)
}

func getProduct(q sqlx.Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `SELECT * FROM products WHERE id = ?`, id)
	return p, err
}

func (r *CatalogRepo) ProductBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT * FROM products WHERE slug = ?`, slug)
	return p, err
}

// VisibleProducts lists what non-admin callers may see: active with stock.
func (r *CatalogRepo) VisibleProducts() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT * FROM products
	  WHERE active = 1 AND stock > 0
	  ORDER BY created_at DESC
	`)
	return out, err
}

func (r *CatalogRepo) AllProducts() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT * FROM products ORDER BY created_at DESC`)
	return out, err
}

func (r *CatalogRepo) Categories() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT * FROM categories WHERE active = 1 ORDER BY sort_order, name`)
	return out, err
}

func (r *CatalogRepo) Color(id string) (domain.Color, error) { return getColor(r.db, id) }

func (r *CatalogRepo) ColorTx(tx *sqlx.Tx, id string) (domain.Color, error) {
	return getColor(tx, id)
}

func getColor(q sqlx.Queryer, id string) (domain.Color, error) {
	var c domain.Color
	err := sqlx.Get(q, &c, `SELECT * FROM colors WHERE id = ?`, id)
	return c, err
}

func (r *CatalogRepo) Size(id string) (domain.Size, error) { return getSize(r.db, id) }

func (r *CatalogRepo) SizeTx(tx *sqlx.Tx, id string) (domain.Size, error) {
	return getSize(tx, id)
}

func getSize(q sqlx.Queryer, id string) (domain.Size, error) {
	var s domain.Size
	err := sqlx.Get(q, &s, `SELECT * FROM sizes WHERE id = ?`, id)
	return s, err
}

func (r *CatalogRepo) ColorsFor(productID string) ([]domain.Color, error) {
	var out []domain.Color
	err := r.db.Select(&out, `
	  SELECT c.* FROM colors c
	  JOIN product_colors pc ON pc.color_id = c.id
	  WHERE pc.product_id = ?
	  ORDER BY c.name
	`, productID)
	return out, err
}

func (r *CatalogRepo) SizesFor(productID string) ([]domain.Size, error) {
	var out []domain.Size
	err := r.db.Select(&out, `
	  SELECT s.* FROM sizes s
	  JOIN product_sizes ps ON ps.size_id = s.id
	  WHERE ps.product_id = ? AND s.active = 1
	  ORDER BY s.sort_order
	`, productID)
	return out, err
}

// HasSizes reports whether the product is sold with size options. Line items
// for such products must carry a size (see services.CartService.Add).
func (r *CatalogRepo) HasSizes(productID string) (bool, error) { return hasSizes(r.db, productID) }

func (r *CatalogRepo) HasSizesTx(tx *sqlx.Tx, productID string) (bool, error) {
	return hasSizes(tx, productID)
}

func hasSizes(q sqlx.Queryer, productID string) (bool, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM product_sizes WHERE product_id = ?`, productID)
	return n > 0, err
}

// OffersSize reports whether sizeID is one of the product's options.
func (r *CatalogRepo) OffersSize(productID, sizeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM product_sizes WHERE product_id = ? AND size_id = ?
	`, productID, sizeID)
	return n > 0, err
}
