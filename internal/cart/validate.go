package cart

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	validatorv10 "github.com/go-playground/validator/v10"
)

const minCardDigits = 16

// RegisterValidations installs the checkout struct-level rules on v.
func RegisterValidations(v *validatorv10.Validate) {
	v.RegisterStructValidation(paymentStructValidation, PaymentInfo{})
	v.RegisterStructValidation(orderRequestStructValidation, OrderRequest{})
}

func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	RegisterValidations(v)
	return v
}

// card payments need every card field and a plausible card number
func paymentStructValidation(sl validatorv10.StructLevel) {
	p := sl.Current().Interface().(PaymentInfo)
	if p.Method != PaymentCard {
		return
	}
	if strings.TrimSpace(p.CardName) == "" {
		sl.ReportError(p.CardName, "cardName", "CardName", "required_for_card", "")
	}
	if strings.TrimSpace(p.CardExpiry) == "" {
		sl.ReportError(p.CardExpiry, "cardExpiry", "CardExpiry", "required_for_card", "")
	}
	if strings.TrimSpace(p.CardCVV) == "" {
		sl.ReportError(p.CardCVV, "cardCvv", "CardCVV", "required_for_card", "")
	}
	if !validCardNumber(p.CardNumber) {
		sl.ReportError(p.CardNumber, "cardNumber", "CardNumber", "card_number", fmt.Sprintf("min %d digits", minCardDigits))
	}
}

func validCardNumber(n string) bool {
	digits := 0
	for _, r := range n {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= minCardDigits
}

// orderRequestStructValidation verifies the claimed totals match the lines (within cents)
func orderRequestStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(OrderRequest)

	s := NewSnapshot(req.Lines)
	sumCents := int64(math.Round(TotalPrice(s) * 100))
	totalCents := int64(math.Round(req.TotalPrice * 100))
	if sumCents != totalCents {
		sl.ReportError(req.TotalPrice, "totalPrice", "TotalPrice", "total_match_lines", fmt.Sprintf("lines sum %.2f != total %.2f", TotalPrice(s), req.TotalPrice))
	}
	if ItemCount(s) != req.ItemCount {
		sl.ReportError(req.ItemCount, "itemCount", "ItemCount", "count_match_lines", "")
	}
}
