package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-clubshop/internal/cart"
)

func TestAddItemRequest_Valid(t *testing.T) {
	v := New()

	req := AddItemRequest{ProductID: "p1", Name: "Home Jersey", Price: 450, Size: "M"}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
	if req.Qty() != 1 {
		t.Fatalf("expected default quantity 1, got %d", req.Qty())
	}
	if p := req.Product(); p.ID != "p1" || p.Size != "M" {
		t.Fatalf("product conversion mismatch: %+v", p)
	}
}

func TestAddItemRequest_Invalid(t *testing.T) {
	v := New()

	cases := map[string]AddItemRequest{
		"missing product":   {Name: "x", Price: 1},
		"negative price":    {ProductID: "p1", Name: "x", Price: -1},
		"negative quantity": {ProductID: "p1", Name: "x", Price: 1, Quantity: -2},
	}
	for name, req := range cases {
		if err := v.Struct(req); err == nil {
			t.Fatalf("%s: expected validation error, got nil", name)
		}
	}
}

func TestSetQuantityRequest_RequiresQuantity(t *testing.T) {
	v := New()

	if err := v.Struct(SetQuantityRequest{}); err == nil {
		t.Fatal("expected error for missing quantity")
	}
	zero := 0
	if err := v.Struct(SetQuantityRequest{Quantity: &zero}); err != nil {
		t.Fatalf("zero quantity is allowed (removes the line), got %v", err)
	}
}

func TestCheckoutRequest_CardRules(t *testing.T) {
	v := New()

	req := CheckoutRequest{
		Shipping: cart.ShippingInfo{Address: "Bd Mohammed V", Phone: "+212522271818"},
		Payment:  cart.PaymentInfo{Method: cart.PaymentCard, CardName: "A Fan", CardNumber: "4111111111111111", CardExpiry: "01/29", CardCVV: "321"},
	}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}

	req.Payment.CardNumber = "4111"
	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected card number error, got nil")
	}
	fields := fieldErrors(err)
	if _, ok := fields["CheckoutRequest.payment.cardNumber"]; !ok {
		t.Fatalf("expected cardNumber field error, got %v", fields)
	}
}

func TestCheckoutRequest_MissingShipping(t *testing.T) {
	v := New()

	req := CheckoutRequest{Payment: cart.PaymentInfo{Method: cart.PaymentMobile}}
	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation errors for missing shipping, got nil")
	}
	fields := fieldErrors(err)
	if len(fields) != 2 {
		t.Fatalf("expected address and phone errors, got %v", fields)
	}
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	cases := map[string]struct {
		body string
		code int
		want string
	}{
		"empty body":   {body: "", code: http.StatusBadRequest, want: "empty_request_body"},
		"broken json":  {body: "{", code: http.StatusBadRequest, want: "invalid_request_body"},
		"invalid item": {body: `{"productId":"p1","name":"Scarf","price":-5}`, code: http.StatusBadRequest, want: "validation_failed"},
		"valid":        {body: `{"productId":"p1","name":"Scarf","price":120}`, code: http.StatusOK},
	}
	for name, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(tc.body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req AddItemRequest
		if err := BindAndValidate(c, &req, v); err != nil {
			if w.Code != tc.code || !strings.Contains(w.Body.String(), tc.want) {
				t.Fatalf("%s: got %d %s", name, w.Code, w.Body.String())
			}
			continue
		}
		if tc.code != http.StatusOK {
			t.Fatalf("%s: expected rejection", name)
		}
	}
}
