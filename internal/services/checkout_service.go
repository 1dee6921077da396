package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"chiva/internal/domain"
	applog "chiva/internal/log"
	"chiva/internal/notify"
	"chiva/internal/repos"
)

// Shipping is the checkout form: where the order goes and who pays for it.
type Shipping struct {
	Name    string
	Email   string
	Address string
	City    string
}

func (sh Shipping) validate() error {
	if strings.TrimSpace(sh.Name) == "" || strings.TrimSpace(sh.Email) == "" ||
		strings.TrimSpace(sh.Address) == "" || strings.TrimSpace(sh.City) == "" {
		return ErrMissingField
	}
	return nil
}

type CheckoutService struct {
	Carts        *repos.CartRepo
	Catalog      *repos.CatalogRepo
	Orders       *repos.OrderRepo
	Mailer       notify.Mailer
	ShippingCost decimal.Decimal
}

func NewCheckoutService(carts *repos.CartRepo, catalog *repos.CatalogRepo, orders *repos.OrderRepo,
	mailer notify.Mailer, shippingCost decimal.Decimal) *CheckoutService {
	return &CheckoutService{Carts: carts, Catalog: catalog, Orders: orders,
		Mailer: mailer, ShippingCost: shippingCost}
}

// Convert turns an active cart into an order. One transaction covers the cart
// status CAS, the order header and every snapshot item; two concurrent
// checkouts on the same cart therefore produce exactly one order, and the
// loser gets ErrAlreadyConverted.
//
// Descriptive attributes are copied, not referenced: later catalog edits or
// deletions never rewrite what the customer bought. FKs are kept alongside
// while the rows still exist, for convenience lookups only.
func (s *CheckoutService) Convert(id Identity, ship Shipping) (domain.Order, []domain.OrderItem, error) {
	if err := ship.validate(); err != nil {
		return domain.Order{}, nil, err
	}

	cart, err := s.Carts.FindActive(id.UserID, id.SessionKey)
	if err == sql.ErrNoRows {
		// No active cart: either checkout already happened, or there was
		// never anything to buy. Tell those apart for the caller.
		last, lerr := s.Carts.FindLatest(id.UserID, id.SessionKey)
		if lerr == nil && last.Status == domain.CartStatusConverted {
			return domain.Order{}, nil, ErrAlreadyConverted
		}
		if lerr == nil && last.Status == domain.CartStatusAbandoned {
			return domain.Order{}, nil, ErrCartNotActive
		}
		return domain.Order{}, nil, ErrEmptyCart
	}
	if err != nil {
		return domain.Order{}, nil, err
	}
	return s.ConvertCart(cart.ID, ship)
}

// ConvertCart is Convert for an explicit cart id.
//
// The status CAS runs first inside the transaction: winning the flip takes the
// write lock, so no cart mutation can commit between reading the lines and
// inserting the order. The line set that is read is exactly the set converted.
func (s *CheckoutService) ConvertCart(cartID string, ship Shipping) (domain.Order, []domain.OrderItem, error) {
	if err := ship.validate(); err != nil {
		return domain.Order{}, nil, err
	}

	tx, err := s.Orders.Begin()
	if err != nil {
		return domain.Order{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	won, err := s.Carts.MarkConverted(tx, cartID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	cart, err := s.Carts.GetTx(tx, cartID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if !won {
		if cart.Status == domain.CartStatusConverted {
			return domain.Order{}, nil, ErrAlreadyConverted
		}
		return domain.Order{}, nil, ErrCartNotActive
	}

	lines, err := s.Carts.ItemsTx(tx, cartID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if len(lines) == 0 {
		// rollback undoes the flip; the cart stays active
		return domain.Order{}, nil, ErrEmptyCart
	}

	// Size invariant, re-checked at the conversion boundary: losing size
	// information on a sized product is a data defect, not an edge case.
	for _, li := range lines {
		if li.SizeID.Valid {
			continue
		}
		hasSizes, err := s.Catalog.HasSizesTx(tx, li.ProductID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		if hasSizes {
			return domain.Order{}, nil, ErrSizeRequired
		}
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   newOrderNumber(),
		CartID:        cartID,
		UserID:        cart.UserID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PayStatusPending,
		CustomerName:  ship.Name,
		CustomerEmail: ship.Email,
		ShippingAddr:  ship.Address,
		ShippingCity:  ship.City,
		ShippingCost:  s.ShippingCost,
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, li := range lines {
		it := s.snapshot(tx, order.ID, li)
		total = total.Add(it.Subtotal())
		items = append(items, it)
	}
	// Server-side total; a client-supplied figure is never trusted.
	order.TotalAmount = total.Add(s.ShippingCost)

	if err := s.Orders.Create(tx, order); err != nil {
		return domain.Order{}, nil, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(tx, it); err != nil {
			return domain.Order{}, nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, nil, err
	}

	// Confirmation mail is best-effort; checkout never fails on it.
	if s.Mailer != nil {
		if err := s.Mailer.OrderConfirmed(order, items); err != nil {
			applog.Plain("error", "notify.order_confirmed.fail", err,
				map[string]any{"order_number": order.OrderNumber})
		}
	}

	return order, items, nil
}

// snapshot denormalizes one cart line. Rows already gone from the catalog
// degrade to the explicit unknown marker, never to an ambiguous empty field.
func (s *CheckoutService) snapshot(tx *sqlx.Tx, orderID string, li domain.CartItem) domain.OrderItem {
	it := domain.OrderItem{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: sql.NullString{String: li.ProductID, Valid: true},
		ColorID:   li.ColorID,
		SizeID:    li.SizeID,
		Quantity:  li.Quantity,
		UnitPrice: li.Price,
	}

	if p, err := s.Catalog.ProductTx(tx, li.ProductID); err == nil {
		it.ProductName = p.Name
		it.SKU = p.SKU
	} else {
		it.ProductName = domain.AttrUnknown
		it.ProductID = sql.NullString{}
	}

	if li.ColorID.Valid {
		if c, err := s.Catalog.ColorTx(tx, li.ColorID.String); err == nil {
			it.ColorName = c.Name
			it.ColorHex = c.HexCode
		} else {
			it.ColorName = domain.AttrUnknown
			it.ColorID = sql.NullString{}
		}
	}

	if li.SizeID.Valid {
		if sz, err := s.Catalog.SizeTx(tx, li.SizeID.String); err == nil {
			it.SizeName = sz.Name
			it.SizeAbbr = sz.Abbreviation
		} else {
			it.SizeName = domain.AttrUnknown
			it.SizeID = sql.NullString{}
		}
	}

	return it
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "CHV-" + time.Now().UTC().Format("20060102") + "-" + suffix
}
