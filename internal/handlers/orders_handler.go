package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-clubshop/internal/auth"
	"github.com/imrishuroy/go-clubshop/internal/idempotency"
	"github.com/imrishuroy/go-clubshop/internal/orders"
	"github.com/imrishuroy/go-clubshop/internal/validation"
)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
	maxIdempotencyKey = 255
)

type checkoutResponse struct {
	Order interface{} `json:"order"`
	Cart  cartView    `json:"cart"`
}

// checkout turns the caller's cart into an order. The Idempotency-Key header, when present,
// makes retries return the order created by the first attempt.
func (a *API) checkout(c *gin.Context) {
	identity, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	var req validation.CheckoutRequest
	if err := validation.BindAndValidate(c, &req, a.validator); err != nil {
		return
	}

	ctx := c.Request.Context()
	if key := strings.TrimSpace(c.GetHeader(idempotency.Header)); key != "" {
		if len(key) > maxIdempotencyKey {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_idempotency_key"})
			return
		}
		ctx = idempotency.WithKey(ctx, key)
	}

	svc := a.carts.For(ctx, "user:"+identity.UserID)
	rec, err := svc.Checkout(ctx, identity, req.Shipping, req.Payment)
	if err != nil {
		writeCartError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/orders/%s", rec.OrderID))
	c.JSON(http.StatusCreated, checkoutResponse{Order: rec, Cart: viewOf(svc.Snapshot())})
}

func (a *API) listOrders(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c.Request.Context())

	limit := defaultOrderLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		limit = min(n, maxOrderLimit)
	}

	list, err := a.orders.ListByUser(c.Request.Context(), identity.UserID, limit)
	if err != nil {
		writeCartError(c, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (a *API) getOrder(c *gin.Context) {
	identity, _ := auth.IdentityFromContext(c.Request.Context())

	order, err := a.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeCartError(c, err)
		return
	}
	// other users' orders are indistinguishable from missing ones
	if order == nil || order.UserID != identity.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
		return
	}
	c.JSON(http.StatusOK, order)
}
