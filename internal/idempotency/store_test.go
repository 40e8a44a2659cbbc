package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-clubshop/internal/aws/awstest"
)

const table = "idempotency-table"

// seed writes rec the way the checkout transaction does.
func seed(t *testing.T, mock *awstest.Dynamo, rec Record) {
	t.Helper()
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	mock.Put(table, rec.IdempotencyKey, item)
}

func TestCheckoutKeyLifecycle(t *testing.T) {
	mock := awstest.NewDynamo()
	s := NewStore(mock, table, 48*time.Hour)
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.nowFunc = func() time.Time { return fixed }

	ctx := context.Background()
	key := "checkout-key-1"

	rec := s.NewRecord(key, "uid-1", "order-123")
	rec.Fingerprint = "fp-1"
	seed(t, mock, rec)

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected record, got nil")
	}
	rec = *got
	if rec.Status != StatusInProgress || rec.OrderID != "order-123" || rec.UserID != "uid-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ExpiresAt != fixed.Add(48*time.Hour).Unix() {
		t.Fatalf("expires_at mismatch: %d", rec.ExpiresAt)
	}
	if rec.Expired(fixed) || !rec.Expired(fixed.Add(49*time.Hour)) {
		t.Fatalf("expiry window mismatch for %+v", rec)
	}
	if !rec.SameRequest("fp-1") || rec.SameRequest("fp-2") {
		t.Fatalf("fingerprint mismatch for %+v", rec)
	}

	if err := s.MarkDone(ctx, key, `{"orderId":"order-123"}`, 201); err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}
	item, _ := mock.Item(table, key)
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != string(StatusDone) {
		t.Fatalf("status not updated to DONE, got %+v", item["status"])
	}
	if rb, ok := item["response_body"].(*types.AttributeValueMemberS); !ok || rb.Value != `{"orderId":"order-123"}` {
		t.Fatalf("response_body not set correctly: %+v", item["response_body"])
	}

	// a settled key stays settled
	if err := s.MarkFailed(ctx, key, "sqs_send_failed"); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}
	got, _ = s.Get(ctx, key)
	if got.Status != StatusDone {
		t.Fatalf("DONE record was overwritten: %+v", got)
	}
}

func TestMarkFailed(t *testing.T) {
	mock := awstest.NewDynamo()
	s := NewStore(mock, table, time.Hour)
	ctx := context.Background()

	seed(t, mock, s.NewRecord("k", "uid-1", "o1"))
	if err := s.MarkFailed(ctx, "k", "sqs_send_failed"); err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
	rec, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Status != StatusFailed || rec.Note != "sqs_send_failed" {
		t.Fatalf("expected FAILED with note, got %+v", rec)
	}
}

func TestSameRequest_UnfingerprintedRecordMatches(t *testing.T) {
	if !(Record{}).SameRequest("anything") {
		t.Fatalf("record without fingerprint should match")
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore(awstest.NewDynamo(), table, time.Hour)

	rec, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestKeyContext(t *testing.T) {
	ctx := context.Background()
	if got := KeyFromContext(ctx); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
	if got := KeyFromContext(WithKey(ctx, "   ")); got != "" {
		t.Fatalf("blank key should be ignored, got %q", got)
	}
	if got := KeyFromContext(WithKey(ctx, " abc ")); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
