package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-clubshop/internal/cart"
)

// New returns a configured validator with the checkout struct-level rules registered.
// Field errors are reported under their JSON names.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// card payments need the card fields; order totals must match their lines
	cart.RegisterValidations(v)

	return v
}
