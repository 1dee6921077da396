package services

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"chiva/internal/domain"
	applog "chiva/internal/log"
	"chiva/internal/repos"
)

type PaymentService struct {
	Payments *repos.PaymentRepo
	Orders   *repos.OrderRepo
}

func NewPaymentService(payments *repos.PaymentRepo, orders *repos.OrderRepo) *PaymentService {
	return &PaymentService{Payments: payments, Orders: orders}
}

// requestItem mirrors one line of the payload sent to the processor. The
// items array (with its size/color ids) is kept verbatim in request_data and
// doubles as the last-resort source for variant attributes.
type requestItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	ColorID   string `json:"color_id,omitempty"`
	ColorName string `json:"color_name,omitempty"`
	SizeID    string `json:"size_id,omitempty"`
	SizeName  string `json:"size_name,omitempty"`
	SizeAbbr  string `json:"size_abbreviation,omitempty"`
}

// Start opens a payment attempt for a freshly converted order and persists
// the raw request payload before anything is sent to the processor.
func (s *PaymentService) Start(o domain.Order, items []domain.OrderItem) (domain.Payment, error) {
	reqItems := make([]requestItem, 0, len(items))
	for _, it := range items {
		ri := requestItem{
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
			ColorName: it.ColorName,
			SizeName:  it.SizeName,
			SizeAbbr:  it.SizeAbbr,
		}
		if it.ProductID.Valid {
			ri.ProductID = it.ProductID.String
		}
		if it.ColorID.Valid {
			ri.ColorID = it.ColorID.String
		}
		if it.SizeID.Valid {
			ri.SizeID = it.SizeID.String
		}
		reqItems = append(reqItems, ri)
	}

	ref := "pay-" + uuid.NewString()
	raw, err := json.Marshal(map[string]any{
		"reference":    ref,
		"amount":       o.TotalAmount.String(),
		"currency":     "MZN",
		"order_number": o.OrderNumber,
		"items":        reqItems,
	})
	if err != nil {
		return domain.Payment{}, err
	}

	p := domain.Payment{
		ID:          uuid.NewString(),
		OrderID:     sql.NullString{String: o.ID, Valid: true},
		CartID:      sql.NullString{String: o.CartID, Valid: true},
		Reference:   ref,
		Amount:      o.TotalAmount,
		Status:      domain.PaymentStatusPending,
		RequestData: string(raw),
	}
	if err := s.Payments.Create(p); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

// Callback is the decoded result of one processor webhook delivery.
type Callback struct {
	Reference string
	Status    string // internal status: pending|completed|failed
	Amount    decimal.Decimal
}

// ParseCallback extracts the fields the core needs from an otherwise opaque
// processor payload. Everything else in the map is ignored on purpose.
func ParseCallback(payload map[string]any) (Callback, error) {
	ref := firstString(payload, "reference", "transaction_id", "tx_ref")
	rawStatus := firstString(payload, "status", "payment_status")
	if ref == "" || rawStatus == "" {
		return Callback{}, ErrMalformedEvent
	}

	var status string
	switch strings.ToLower(rawStatus) {
	case "success", "successful", "completed", "paid":
		status = domain.PaymentStatusCompleted
	case "failed", "failure", "cancelled", "declined":
		status = domain.PaymentStatusFailed
	case "pending", "processing":
		status = domain.PaymentStatusPending
	default:
		return Callback{}, ErrMalformedEvent
	}

	cb := Callback{Reference: ref, Status: status}
	switch v := payload["amount"].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			cb.Amount = d
		}
	case float64:
		cb.Amount = decimal.NewFromFloat(v)
	}
	return cb, nil
}

// Apply records a callback against its payment and syncs the order.
//
// Reapplying an identical status is a no-op (duplicate deliveries happen).
// A terminal status arriving after a different terminal status is an
// inconsistency for an operator, never a silent overwrite.
func (s *PaymentService) Apply(cb Callback) (applied bool, err error) {
	p, err := s.Payments.ByReference(cb.Reference)
	if err == sql.ErrNoRows {
		return false, ErrUnknownReference
	}
	if err != nil {
		return false, err
	}

	if cb.Status == p.Status {
		// Idempotent replay. A prior delivery may have updated the payment
		// and then failed before the order; the retry is what heals that,
		// so re-drive the sync instead of trusting the order is current.
		if domain.TerminalPaymentStatus(p.Status) {
			if err := s.syncOrder(p, p.Status); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if domain.TerminalPaymentStatus(p.Status) && domain.TerminalPaymentStatus(cb.Status) {
		applog.Plain("error", "payment.status_conflict", nil, map[string]any{
			"payment_id": p.ID,
			"have":       p.Status,
			"got":        cb.Status,
		})
		return false, ErrStatusConflict
	}
	if domain.TerminalPaymentStatus(p.Status) {
		// terminal -> pending is a stale out-of-order delivery
		return false, nil
	}

	if !cb.Amount.IsZero() && !cb.Amount.Equal(p.Amount) {
		applog.Plain("warn", "payment.amount_mismatch", nil, map[string]any{
			"payment_id": p.ID,
			"expected":   p.Amount.String(),
			"reported":   cb.Amount.String(),
		})
	}

	if err := s.Payments.SetStatus(p.ID, cb.Status); err != nil {
		return false, err
	}
	return true, s.syncOrder(p, cb.Status)
}

// syncOrder brings the order in line with the payment's status. Idempotent:
// only the lagging columns are written, so the webhook retry loop converges
// even when a prior attempt died between the payment and order updates.
func (s *PaymentService) syncOrder(p domain.Payment, status string) error {
	if !p.OrderID.Valid {
		applog.Plain("warn", "payment.no_order", nil, map[string]any{"payment_id": p.ID})
		return nil
	}
	o, _, err := s.Orders.Get(p.OrderID.String)
	if err != nil {
		return err
	}

	switch status {
	case domain.PaymentStatusCompleted:
		if o.PaymentStatus != domain.PayStatusPaid {
			if err := s.Orders.SetPaymentStatus(o.ID, domain.PayStatusPaid); err != nil {
				return err
			}
		}
		// Paid orders move toward fulfillment.
		if o.Status == domain.OrderStatusPending {
			if err := s.Orders.SetStatus(o.ID, domain.OrderStatusProcessing); err != nil {
				return err
			}
		}
	case domain.PaymentStatusFailed:
		if o.PaymentStatus == domain.PayStatusPending {
			if err := s.Orders.SetPaymentStatus(o.ID, domain.PayStatusFailed); err != nil {
				return err
			}
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
