package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/observability"
)

// Optional verifies a bearer token when one is present and stores the identity on the request
// context. Requests without a token pass through as guests; a bad token is rejected.
func Optional(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		identity, err := v.Verify(token)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, ErrTokenExpired) {
				code = "token_expired"
			}
			observability.FromContext(c.Request.Context()).Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		ctx := WithIdentity(c.Request.Context(), identity)
		ctx = observability.WithLogger(ctx, observability.FromContext(ctx).With(zap.String("user_id", identity.UserID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Required rejects requests that carry no verified identity.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
			return
		}
		c.Next()
	}
}
