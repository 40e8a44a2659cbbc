package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-clubshop/internal/auth"
	"github.com/imrishuroy/go-clubshop/internal/cart"
	"github.com/imrishuroy/go-clubshop/internal/validation"
)

// SessionHeader identifies a guest cart.
const SessionHeader = "X-Cart-Session"

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

type cartView struct {
	Items      []cart.Line `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	ItemCount  int         `json:"itemCount"`
}

func viewOf(s cart.Snapshot) cartView {
	return cartView{Items: s.Lines(), TotalPrice: s.TotalPrice(), ItemCount: s.ItemCount()}
}

// cartOwner resolves whose cart the request addresses: the signed-in user, else the guest session.
func cartOwner(c *gin.Context) (string, bool) {
	if id, ok := auth.IdentityFromContext(c.Request.Context()); ok {
		return "user:" + id.UserID, true
	}
	session := c.GetHeader(SessionHeader)
	if !sessionPattern.MatchString(session) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_cart_session", "detail": SessionHeader + " header or bearer token required"})
		return "", false
	}
	return "guest:" + session, true
}

func (a *API) cartService(c *gin.Context) (*cart.Service, bool) {
	owner, ok := cartOwner(c)
	if !ok {
		return nil, false
	}
	return a.carts.For(c.Request.Context(), owner), true
}

func itemKey(c *gin.Context) cart.Key {
	return cart.Key{ProductID: c.Param("productId"), Size: c.Query("size")}
}

func (a *API) getCart(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(svc.Snapshot()))
}

func (a *API) clearCart(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	snap, err := svc.Clear(c.Request.Context())
	a.respond(c, snap, err)
}

func (a *API) addItem(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	var req validation.AddItemRequest
	if err := validation.BindAndValidate(c, &req, a.validator); err != nil {
		return
	}
	snap, err := svc.AddItem(c.Request.Context(), req.Product(), req.Qty())
	a.respond(c, snap, err)
}

func (a *API) setQuantity(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	var req validation.SetQuantityRequest
	if err := validation.BindAndValidate(c, &req, a.validator); err != nil {
		return
	}
	snap, err := svc.SetQuantity(c.Request.Context(), itemKey(c), *req.Quantity)
	a.respond(c, snap, err)
}

func (a *API) incrementItem(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	snap, err := svc.IncrementQuantity(c.Request.Context(), itemKey(c))
	a.respond(c, snap, err)
}

func (a *API) decrementItem(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	snap, err := svc.DecrementQuantity(c.Request.Context(), itemKey(c))
	a.respond(c, snap, err)
}

func (a *API) removeItem(c *gin.Context) {
	svc, ok := a.cartService(c)
	if !ok {
		return
	}
	snap, err := svc.RemoveItem(c.Request.Context(), itemKey(c))
	a.respond(c, snap, err)
}

func (a *API) respond(c *gin.Context, s cart.Snapshot, err error) {
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}
