package validation

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/observability"
)

// BindAndValidate decodes the JSON body into out and validates it with v.
// On failure it has already written a 400 and the handler should return.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		code := "invalid_request_body"
		if errors.Is(err, io.EOF) {
			code = "empty_request_body"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": code, "detail": err.Error()})
		return err
	}

	if err := v.Struct(out); err != nil {
		fields := fieldErrors(err)
		observability.FromContext(c.Request.Context()).Debug("request rejected", zap.Any("fields", fields))
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fields})
		return err
	}
	return nil
}

// fieldErrors keys field errors by their JSON namespace, e.g. CheckoutRequest.payment.cardNumber.
func fieldErrors(err error) map[string]string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"error": err.Error()}
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}
