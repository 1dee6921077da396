package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Standard size table (idempotent; safe to run every start)
	if err := SeedDefaultSizes(db); err != nil {
		return nil, err
	}
	// Seed demo catalog if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure the local operator account exists (idempotent)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_slug ON categories(slug);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  sku TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug ON products(slug);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_active   ON products(active);

-- Variant reference data
CREATE TABLE IF NOT EXISTS colors(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  hex_code TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sizes(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  abbreviation TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sizes_name ON sizes(name);

-- Options a product is sold with
CREATE TABLE IF NOT EXISTS product_colors(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  color_id   TEXT NOT NULL REFERENCES colors(id) ON DELETE CASCADE,
  PRIMARY KEY(product_id, color_id)
);

CREATE TABLE IF NOT EXISTS product_sizes(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size_id    TEXT NOT NULL REFERENCES sizes(id) ON DELETE CASCADE,
  PRIMARY KEY(product_id, size_id)
);

-- Users (identity provisioning is external; we only persist the admin flag)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL DEFAULT '',
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Carts: owned by a user XOR an anonymous session key
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  session_key TEXT NULL,
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','converted','abandoned')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_activity TEXT DEFAULT CURRENT_TIMESTAMP,
  CHECK ((user_id IS NULL) <> (session_key IS NULL))
);
CREATE INDEX IF NOT EXISTS idx_carts_user    ON carts(user_id);
CREATE INDEX IF NOT EXISTS idx_carts_session ON carts(session_key);
CREATE INDEX IF NOT EXISTS idx_carts_status ON carts(status);

CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  color_id   TEXT NULL REFERENCES colors(id) ON DELETE SET NULL,
  size_id    TEXT NULL REFERENCES sizes(id) ON DELETE SET NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id);

-- Orders: one per cart, immutable except status columns
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  cart_id TEXT NOT NULL UNIQUE REFERENCES carts(id),
  user_id TEXT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','processing','shipped','delivered','cancelled')),
  payment_status TEXT NOT NULL DEFAULT 'pending'
    CHECK (payment_status IN ('pending','paid','failed')),
  customer_name TEXT NOT NULL DEFAULT '',
  customer_email TEXT NOT NULL DEFAULT '',
  shipping_address TEXT NOT NULL DEFAULT '',
  shipping_city TEXT NOT NULL DEFAULT '',
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  total_amount NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Order items: denormalized snapshot columns are part of the durable contract.
-- Dropping them without a backfill breaks the payment-payload fallback chain.
CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NULL REFERENCES products(id) ON DELETE SET NULL,
  color_id   TEXT NULL REFERENCES colors(id) ON DELETE SET NULL,
  size_id    TEXT NULL REFERENCES sizes(id) ON DELETE SET NULL,
  product_name TEXT NOT NULL,
  sku TEXT NOT NULL DEFAULT '',
  color_name TEXT NOT NULL DEFAULT '',
  color_hex TEXT NOT NULL DEFAULT '',
  size_name TEXT NOT NULL DEFAULT '',
  size_abbreviation TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Payments: reference an order weakly; never deleted in normal operation
CREATE TABLE IF NOT EXISTS payments(
  id TEXT PRIMARY KEY,
  order_id TEXT NULL REFERENCES orders(id),
  cart_id  TEXT NULL,
  reference TEXT NOT NULL UNIQUE,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','completed','failed')),
  request_data TEXT NOT NULL DEFAULT '{}',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDefaultSizes inserts the standard size table: letter sizes, numeric shoe
// sizes and the single-size marker. Existing rows keep their ids; abbreviation
// and sort order are refreshed if they drifted.
func SeedDefaultSizes(db *sqlx.DB) error {
	type s struct {
		Name, Abbr string
		Order      int
	}
	sizes := []s{
		{"Extra Pequeno", "XP", 1},
		{"Pequeno", "P", 2},
		{"Médio", "M", 3},
		{"Grande", "G", 4},
		{"Extra Grande", "GG", 5},
		{"Extra Extra Grande", "XG", 6},
		{"Tamanho 36", "36", 10},
		{"Tamanho 37", "37", 11},
		{"Tamanho 38", "38", 12},
		{"Tamanho 39", "39", 13},
		{"Tamanho 40", "40", 14},
		{"Tamanho 41", "41", 15},
		{"Tamanho 42", "42", 16},
		{"Tamanho 43", "43", 17},
		{"Tamanho 44", "44", 18},
		{"Tamanho 45", "45", 19},
		{"Extra Small", "XS", 20},
		{"Small", "S", 21},
		{"Medium", "M", 22},
		{"Large", "L", 23},
		{"Extra Large", "XL", 24},
		{"Double XL", "XXL", 25},
		{"Triple XL", "XXXL", 26},
		{"Tamanho Único", "ÚN", 30},
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range sizes {
		if _, err := tx.Exec(`
			INSERT INTO sizes(id, name, abbreviation, sort_order, active)
			VALUES('size-'||LOWER(REPLACE(?,' ','-')), ?, ?, ?, 1)
			ON CONFLICT(name) DO UPDATE SET
			  abbreviation = excluded.abbreviation,
			  sort_order   = excluded.sort_order
		`, x.Name, x.Name, x.Abbr, x.Order); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/colors")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,slug,sort_order) VALUES
	  ('cat-vestidos','Vestidos','vestidos',1),
	  ('cat-camisas','Camisas','camisas',2),
	  ('cat-calcados','Calçados','calcados',3)`)

	tx.MustExec(`INSERT INTO colors(id,name,hex_code) VALUES
	  ('col-azul','Azul','#1E40AF'),
	  ('col-preto','Preto','#000000'),
	  ('col-branco','Branco','#FFFFFF'),
	  ('col-vermelho','Vermelho','#DC2626')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,slug,sku,description,price,stock) VALUES
	  ('prd-vestido-azul','cat-vestidos','Vestido Azul','vestido-azul','VES-AZ-001','Vestido casual azul.',2500.00,12),
	  ('prd-camisa-branca','cat-camisas','Camisa Branca','camisa-branca','CAM-BR-001','Camisa social branca.',1200.00,30),
	  ('prd-sapato-preto','cat-calcados','Sapato Preto','sapato-preto','SAP-PR-001','Sapato clássico preto.',3800.00,8)`)

	tx.MustExec(`INSERT INTO product_colors(product_id,color_id) VALUES
	  ('prd-vestido-azul','col-azul'),
	  ('prd-camisa-branca','col-branco'),
	  ('prd-sapato-preto','col-preto')`)

	tx.MustExec(`INSERT INTO product_sizes(product_id,size_id)
	  SELECT 'prd-vestido-azul', id FROM sizes WHERE abbreviation IN ('P','G','GG') AND sort_order < 10`)
	tx.MustExec(`INSERT INTO product_sizes(product_id,size_id)
	  SELECT 'prd-vestido-azul', id FROM sizes WHERE name = 'Médio'`)
	tx.MustExec(`INSERT INTO product_sizes(product_id,size_id)
	  SELECT 'prd-sapato-preto', id FROM sizes WHERE abbreviation IN ('40','41','42')`)

	return tx.Commit()
}

// seedUsers ensures the local operator account exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("Chiva#2024!"), 12)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,is_admin)
		VALUES('u-operator','operador@chiva.test','Operador',?,1)
		ON CONFLICT(email) DO NOTHING
	`, string(h))
	return err
}
