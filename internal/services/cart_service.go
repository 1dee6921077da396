package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"chiva/internal/repos"
)

// Identity names the cart owner: a user id for logged-in shoppers or the
// session key for anonymous ones. Exactly one must be set.
type Identity struct {
	UserID     string
	SessionKey string
}

type CartService struct {
	Carts   *repos.CartRepo
	Catalog *repos.CatalogRepo
}

func NewCartService(carts *repos.CartRepo, catalog *repos.CatalogRepo) *CartService {
	return &CartService{Carts: carts, Catalog: catalog}
}

func (s *CartService) ensure(id Identity) (string, error) {
	if id.UserID != "" {
		return s.Carts.EnsureForUser(uuid.NewString(), id.UserID)
	}
	return s.Carts.EnsureForSession(uuid.NewString(), id.SessionKey)
}

// Add puts qty of a product (with its chosen variant) into the owner's active
// cart. The size rule is enforced here, at the item-creation boundary: a
// product sold in sizes never produces a line without one.
func (s *CartService) Add(id Identity, productID, colorID, sizeID string, qty int) error {
	if qty < 1 {
		return ErrBadQuantity
	}

	p, err := s.Catalog.Product(productID)
	if err == sql.ErrNoRows {
		return ErrUnavailable
	}
	if err != nil {
		return err
	}
	if !p.Visible() {
		return ErrUnavailable
	}

	hasSizes, err := s.Catalog.HasSizes(productID)
	if err != nil {
		return err
	}
	if hasSizes && sizeID == "" {
		return ErrSizeRequired
	}
	if sizeID != "" {
		ok, err := s.Catalog.OffersSize(productID, sizeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSizeNotOffered
		}
	}
	if colorID != "" {
		if _, err := s.Catalog.Color(colorID); err == sql.ErrNoRows {
			return ErrColorNotOffered
		} else if err != nil {
			return err
		}
	}

	cartID, err := s.ensure(id)
	if err != nil {
		return err
	}
	return s.Carts.AddItem(uuid.NewString(), cartID, productID,
		nullable(colorID), nullable(sizeID), qty, p.Price)
}

func (s *CartService) UpdateQty(id Identity, itemID string, qty int) error {
	if qty < 1 {
		return ErrBadQuantity
	}
	cartID, err := s.ensure(id)
	if err != nil {
		return err
	}
	if err := s.Carts.UpdateItemQty(cartID, itemID, qty); err == sql.ErrNoRows {
		return ErrItemNotFound
	} else if err != nil {
		return err
	}
	return nil
}

func (s *CartService) Remove(id Identity, itemID string) error {
	cartID, err := s.ensure(id)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, itemID)
}

type CartView struct {
	CartID string
	Items  []repos.CartItemRow
	Total  decimal.Decimal
}

func (s *CartService) View(id Identity) (CartView, error) {
	cartID, err := s.ensure(id)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{CartID: cartID, Items: items, Total: total}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
