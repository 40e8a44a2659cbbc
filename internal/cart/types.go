package cart

import "time"

// Product is what the shop hands to AddItem. Size is empty for products sold without sizes.
type Product struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Size     string  `json:"size,omitempty"`
	ImageRef string  `json:"imageRef,omitempty"`
}

// Key identifies a cart line. Two lines with the same product but different sizes are distinct.
type Key struct {
	ProductID string
	Size      string
}

// Line is one product/size combination with its quantity.
type Line struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"min=1"`
	Size      string  `json:"size,omitempty"`
	ImageRef  string  `json:"imageRef"`
}

// Key returns the identity key of the line.
func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size}
}

// Payment methods accepted at checkout.
const (
	PaymentCard   = "card"
	PaymentMobile = "mobile"
	PaymentCash   = "cash"
)

// ShippingInfo is the delivery address captured at checkout.
type ShippingInfo struct {
	FullName string `json:"fullName,omitempty"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone" validate:"required"`
}

// PaymentInfo carries the selected payment method. Card fields are only required for card payments.
type PaymentInfo struct {
	Method     string `json:"method" validate:"required,oneof=card mobile cash"`
	CardName   string `json:"cardName,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
	CardCVV    string `json:"cardCvv,omitempty"`
}

// OrderRequest is the validated payload handed to the order creator.
type OrderRequest struct {
	UserID     string       `json:"userId" validate:"required"`
	UserEmail  string       `json:"userEmail,omitempty"`
	Lines      []Line       `json:"lines" validate:"required,min=1,dive"`
	TotalPrice float64      `json:"totalPrice" validate:"gte=0"`
	ItemCount  int          `json:"itemCount" validate:"min=1"`
	Shipping   ShippingInfo `json:"shipping"`
	Payment    PaymentInfo  `json:"payment"`
}

// Order statuses owned by the order collaborator.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// OrderRecord is what the order creator returns once an order exists.
type OrderRecord struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
