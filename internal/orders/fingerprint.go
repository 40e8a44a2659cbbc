package orders

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/imrishuroy/go-clubshop/internal/cart"
)

// checkoutPayload is the part of an order request a reused idempotency key must repeat. Card data
// is reduced to its last four digits.
type checkoutPayload struct {
	UserID     string            `json:"u"`
	Lines      []cart.Line       `json:"l"`
	TotalPrice float64           `json:"t"`
	Shipping   cart.ShippingInfo `json:"s"`
	Method     string            `json:"m"`
	CardLast4  string            `json:"c,omitempty"`
}

// Fingerprint hashes the checkout described by req.
func Fingerprint(req cart.OrderRequest) (string, error) {
	b, err := json.Marshal(checkoutPayload{
		UserID:     req.UserID,
		Lines:      req.Lines,
		TotalPrice: req.TotalPrice,
		Shipping:   req.Shipping,
		Method:     req.Payment.Method,
		CardLast4:  lastFour(req.Payment.CardNumber),
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint checkout: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
