package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity is returned when an add is attempted with a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrEmptyCart is returned when checking out a cart without lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotAuthenticated is returned when checkout runs without a signed-in user.
	ErrNotAuthenticated = errors.New("user must be logged in to checkout")
	// ErrInvalidCheckoutDetails is returned when shipping or payment details fail validation.
	ErrInvalidCheckoutDetails = errors.New("invalid checkout details")
	// ErrCheckoutInProgress is returned while another checkout for the same cart is outstanding.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// CheckoutError wraps a failure reported by the order creator. The cart is left untouched.
type CheckoutError struct {
	Err error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed: %v", e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// PersistenceReadError reports a saved cart that could not be read back.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("read saved cart %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }
