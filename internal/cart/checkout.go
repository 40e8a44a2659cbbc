package cart

import (
	"context"
	"fmt"
	"strings"
)

// IdentityProvider exposes the signed-in user. Empty strings mean no user.
type IdentityProvider interface {
	CurrentUserID() string
	CurrentUserEmail() string
}

// OrderCreator persists an order and returns its record.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (OrderRecord, error)
}

// OrderReplayer is implemented by creators that remember completed checkouts. ReplayOrder returns the
// order already placed for the retried request, with found false when there is none.
type OrderReplayer interface {
	ReplayOrder(ctx context.Context, userID string) (rec OrderRecord, found bool, err error)
}

var checkoutValidator = newValidator()

// BuildOrderRequest turns a non-empty snapshot into an order payload for the signed-in user.
func BuildOrderRequest(s Snapshot, id IdentityProvider, shipping ShippingInfo, payment PaymentInfo) (OrderRequest, error) {
	if s.IsEmpty() {
		return OrderRequest{}, ErrEmptyCart
	}
	if id == nil || strings.TrimSpace(id.CurrentUserID()) == "" {
		return OrderRequest{}, ErrNotAuthenticated
	}

	req := OrderRequest{
		UserID:     id.CurrentUserID(),
		UserEmail:  id.CurrentUserEmail(),
		Lines:      s.Lines(),
		TotalPrice: TotalPrice(s),
		ItemCount:  ItemCount(s),
		Shipping:   shipping,
		Payment:    payment,
	}
	if err := checkoutValidator.Struct(req); err != nil {
		return OrderRequest{}, fmt.Errorf("%w: %v", ErrInvalidCheckoutDetails, err)
	}
	return req, nil
}

// Checkout builds the order request and calls the creator once. On success the returned snapshot is
// empty; on any failure the original snapshot is returned unchanged. A retry that arrives after its
// checkout already emptied the cart gets the recorded order when the creator is an OrderReplayer.
func Checkout(ctx context.Context, s Snapshot, id IdentityProvider, shipping ShippingInfo, payment PaymentInfo, orders OrderCreator) (Snapshot, OrderRecord, error) {
	if replayer, ok := orders.(OrderReplayer); ok && s.IsEmpty() && id != nil && strings.TrimSpace(id.CurrentUserID()) != "" {
		rec, found, err := replayer.ReplayOrder(ctx, id.CurrentUserID())
		if err != nil {
			return s, OrderRecord{}, &CheckoutError{Err: err}
		}
		if found {
			return s, rec, nil
		}
	}
	req, err := BuildOrderRequest(s, id, shipping, payment)
	if err != nil {
		return s, OrderRecord{}, err
	}
	rec, err := orders.CreateOrder(ctx, req)
	if err != nil {
		return s, OrderRecord{}, &CheckoutError{Err: err}
	}
	return Clear(), rec, nil
}
