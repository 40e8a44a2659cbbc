package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/cart"
	"github.com/imrishuroy/go-clubshop/internal/observability"
	"github.com/imrishuroy/go-clubshop/internal/orders"
)

// writeCartError maps cart and checkout errors to HTTP responses.
func writeCartError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	var cerr *cart.CheckoutError

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		status, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, cart.ErrInvalidCheckoutDetails):
		status, code = http.StatusBadRequest, "invalid_checkout_details"
	case errors.Is(err, cart.ErrNotAuthenticated):
		status, code = http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, cart.ErrCheckoutInProgress):
		status, code = http.StatusConflict, "checkout_in_progress"
	case errors.Is(err, cart.ErrEmptyCart):
		status, code = http.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, orders.ErrCheckoutPending):
		status, code = http.StatusConflict, "checkout_pending"
	case errors.Is(err, orders.ErrKeyReused):
		status, code = http.StatusConflict, "idempotency_key_reused"
	case errors.Is(err, orders.ErrPreviousAttemptFailed):
		status, code = http.StatusConflict, "previous_attempt_failed"
	case errors.As(err, &cerr):
		status, code = http.StatusBadGateway, "checkout_failed"
	}

	if status >= http.StatusInternalServerError {
		observability.FromContext(c.Request.Context()).Error("request failed", zap.String("code", code), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": code, "detail": err.Error()})
}
