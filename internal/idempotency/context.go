package idempotency

import (
	"context"
	"strings"
)

type keyCtx struct{}

// Header carries the client-chosen idempotency key of a checkout.
const Header = "Idempotency-Key"

// WithKey stores an idempotency key on ctx. Blank keys are ignored.
func WithKey(ctx context.Context, key string) context.Context {
	key = strings.TrimSpace(key)
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, keyCtx{}, key)
}

// KeyFromContext returns the key stored by WithKey, or "".
func KeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(keyCtx{}).(string)
	return key
}
