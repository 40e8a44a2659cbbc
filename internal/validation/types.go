package validation

import "github.com/imrishuroy/go-clubshop/internal/cart"

// AddItemRequest is the payload for POST /cart/items. An omitted quantity means one.
type AddItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Size      string  `json:"size,omitempty" validate:"max=8"`
	ImageRef  string  `json:"imageRef,omitempty"`
	Quantity  int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// Product converts the request into the cart's product shape.
func (r AddItemRequest) Product() cart.Product {
	return cart.Product{
		ID:       r.ProductID,
		Name:     r.Name,
		Price:    r.Price,
		Size:     r.Size,
		ImageRef: r.ImageRef,
	}
}

// Qty returns the requested quantity, defaulting to one.
func (r AddItemRequest) Qty() int {
	if r.Quantity == 0 {
		return 1
	}
	return r.Quantity
}

// SetQuantityRequest is the payload for PUT /cart/items/:productId. Zero or less removes the line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	Shipping cart.ShippingInfo `json:"shipping"`
	Payment  cart.PaymentInfo  `json:"payment"`
}
