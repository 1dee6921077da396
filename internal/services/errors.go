package services

// Err is a business-rule rejection with a stable reason code callers can act
// on. Codes are part of the API surface; messages are for humans.
type Err struct {
	Code    string
	Message string
}

func (e *Err) Error() string { return e.Code + ": " + e.Message }

var (
	ErrEmptyCart        = &Err{"empty_cart", "cart has no items"}
	ErrAlreadyConverted = &Err{"already_converted", "cart was already converted to an order"}
	ErrCartNotActive    = &Err{"cart_not_active", "cart is not active"}
	ErrSizeRequired     = &Err{"size_required", "product is sold in sizes, pick one"}
	ErrSizeNotOffered   = &Err{"size_not_offered", "size is not offered for this product"}
	ErrColorNotOffered  = &Err{"color_not_offered", "color is not offered for this product"}
	ErrBadQuantity      = &Err{"bad_quantity", "quantity must be at least 1"}
	ErrItemNotFound     = &Err{"item_not_found", "cart item not found"}
	ErrUnavailable      = &Err{"product_unavailable", "product does not exist or is not for sale"}
	ErrMissingField     = &Err{"missing_field", "required shipping field is missing"}
	ErrMalformedEvent   = &Err{"malformed_event", "payment callback is missing required fields"}
	ErrUnknownReference = &Err{"unknown_reference", "no payment matches the callback reference"}
	ErrStatusConflict   = &Err{"status_conflict", "conflicting terminal payment status, operator review required"}
)
