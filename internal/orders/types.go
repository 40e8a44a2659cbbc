package orders

import (
	"time"

	"github.com/imrishuroy/go-clubshop/internal/cart"
)

// Order statuses
const (
	StatusPending   = cart.OrderStatusPending
	StatusPaid      = cart.OrderStatusPaid
	StatusCancelled = cart.OrderStatusCancelled
)

// Line is one ordered product as stored with the order.
type Line struct {
	ProductID string  `dynamodbav:"product_id" json:"productId"`
	Name      string  `dynamodbav:"name" json:"name"`
	Price     float64 `dynamodbav:"price" json:"price"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	Size      string  `dynamodbav:"size,omitempty" json:"size,omitempty"`
	Image     string  `dynamodbav:"image,omitempty" json:"image,omitempty"`
}

// Shipping is the delivery address stored with the order.
type Shipping struct {
	FullName string `dynamodbav:"full_name,omitempty" json:"fullName,omitempty"`
	Address  string `dynamodbav:"address" json:"address"`
	City     string `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Phone    string `dynamodbav:"phone" json:"phone"`
}

// Payment is the stored payment summary. Card details are reduced to the last four digits.
type Payment struct {
	Method    string `dynamodbav:"method" json:"method"`
	CardLast4 string `dynamodbav:"card_last4,omitempty" json:"cardLast4,omitempty"`
}

// Order represents the item stored in the Orders DynamoDB table.
type Order struct {
	OrderID     string    `dynamodbav:"order_id" json:"orderId"` // PK
	OrderNumber string    `dynamodbav:"order_number" json:"orderNumber"`
	UserID      string    `dynamodbav:"user_id" json:"userId"` // GSI user_id-created_at-index
	UserEmail   string    `dynamodbav:"user_email,omitempty" json:"userEmail,omitempty"`
	Status      string    `dynamodbav:"status" json:"status"` // pending | paid | cancelled
	Lines       []Line    `dynamodbav:"items" json:"items"`
	TotalPrice  float64   `dynamodbav:"total_price" json:"totalPrice"`
	ItemCount   int       `dynamodbav:"item_count" json:"itemCount"`
	Shipping    Shipping  `dynamodbav:"shipping" json:"shipping"`
	Payment     Payment   `dynamodbav:"payment" json:"payment"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updatedAt"`
	Attempts    int       `dynamodbav:"attempts,omitempty" json:"-"`
}

// Record returns the summary handed back to the cart after checkout.
func (o Order) Record() cart.OrderRecord {
	return cart.OrderRecord{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}

// CreatedEvent is the payload sent from API -> SQS -> Worker once an order exists.
type CreatedEvent struct {
	Type           string `json:"type"`
	OrderID        string `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	UserID         string `json:"user_id"`
	PaymentMethod  string `json:"payment_method"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}

// EventOrderCreated is the CreatedEvent type tag.
const EventOrderCreated = "order.created"
