package services

import (
	"encoding/json"

	"chiva/internal/domain"
	"chiva/internal/repos"
)

// Where a resolved attribute came from, best first. Data created before the
// snapshot policy existed may only be recoverable from the payment payload.
const (
	SourceSnapshot = "snapshot"
	SourceCatalog  = "catalog"
	SourcePayment  = "payment"
	SourceUnknown  = "unknown"
)

type VariantInfo struct {
	Name   string `json:"name"`
	Abbr   string `json:"abbreviation,omitempty"`
	Hex    string `json:"hex,omitempty"`
	Source string `json:"source"`
}

// Resolver answers "what size/color was this order item" for rows of any age:
// snapshot column first, then the live FK, then the payment request payload.
type Resolver struct {
	Catalog  *repos.CatalogRepo
	Payments *repos.PaymentRepo
}

func NewResolver(catalog *repos.CatalogRepo, payments *repos.PaymentRepo) *Resolver {
	return &Resolver{Catalog: catalog, Payments: payments}
}

func (r *Resolver) Size(it domain.OrderItem) VariantInfo {
	// The explicit unknown marker means the source row was gone at
	// conversion; treat it as absent and keep walking the chain.
	if (it.SizeName != "" && it.SizeName != domain.AttrUnknown) || it.SizeAbbr != "" {
		return VariantInfo{Name: it.SizeName, Abbr: it.SizeAbbr, Source: SourceSnapshot}
	}
	if it.SizeID.Valid {
		if sz, err := r.Catalog.Size(it.SizeID.String); err == nil {
			return VariantInfo{Name: sz.Name, Abbr: sz.Abbreviation, Source: SourceCatalog}
		}
	}
	if pi, ok := r.paymentItem(it); ok {
		if pi.SizeName != "" || pi.SizeAbbr != "" {
			return VariantInfo{Name: pi.SizeName, Abbr: pi.SizeAbbr, Source: SourcePayment}
		}
		if pi.SizeID != "" {
			if sz, err := r.Catalog.Size(pi.SizeID); err == nil {
				return VariantInfo{Name: sz.Name, Abbr: sz.Abbreviation, Source: SourcePayment}
			}
		}
	}
	return VariantInfo{Name: domain.AttrUnknown, Source: SourceUnknown}
}

func (r *Resolver) Color(it domain.OrderItem) VariantInfo {
	if it.ColorName != "" && it.ColorName != domain.AttrUnknown {
		return VariantInfo{Name: it.ColorName, Hex: it.ColorHex, Source: SourceSnapshot}
	}
	if it.ColorID.Valid {
		if c, err := r.Catalog.Color(it.ColorID.String); err == nil {
			return VariantInfo{Name: c.Name, Hex: c.HexCode, Source: SourceCatalog}
		}
	}
	if pi, ok := r.paymentItem(it); ok {
		if pi.ColorName != "" {
			return VariantInfo{Name: pi.ColorName, Source: SourcePayment}
		}
		if pi.ColorID != "" {
			if c, err := r.Catalog.Color(pi.ColorID); err == nil {
				return VariantInfo{Name: c.Name, Hex: c.HexCode, Source: SourcePayment}
			}
		}
	}
	return VariantInfo{Name: domain.AttrUnknown, Source: SourceUnknown}
}

// payloadItem reads the historical payload shapes: size fields appeared under
// several names over time, and the items array moved between the top level
// and a meta envelope.
type payloadItem struct {
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	SizeID    string `json:"size_id"`
	Size      string `json:"size"`
	SizeName  string `json:"size_name"`
	SizeAbbr  string `json:"size_abbreviation"`
	ColorID   string `json:"color_id"`
	ColorName string `json:"color_name"`
}

func (r *Resolver) paymentItem(it domain.OrderItem) (payloadItem, bool) {
	if !it.ProductID.Valid {
		return payloadItem{}, false
	}
	p, err := r.Payments.LatestForOrder(it.OrderID)
	if err != nil {
		return payloadItem{}, false
	}

	var envelope struct {
		Items []payloadItem `json:"items"`
		Meta  struct {
			Items []payloadItem `json:"items"`
		} `json:"meta"`
	}
	if err := json.Unmarshal([]byte(p.RequestData), &envelope); err != nil {
		return payloadItem{}, false
	}
	items := envelope.Items
	if len(items) == 0 {
		items = envelope.Meta.Items
	}

	for _, pi := range items {
		if pi.ProductID == it.ProductID.String || pi.Product == it.ProductID.String {
			if pi.SizeAbbr == "" && pi.Size != "" {
				pi.SizeAbbr = pi.Size
			}
			return pi, true
		}
	}
	return payloadItem{}, false
}
