package idempotency

import "time"

// Status is the lifecycle state of a checkout key.
type Status string

// A key is claimed IN_PROGRESS and settled exactly once, to DONE or FAILED.
const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusFailed     Status = "FAILED"
)

// Record is the shape persisted in the idempotency DynamoDB table. One record guards one checkout.
type Record struct {
	IdempotencyKey string    `dynamodbav:"idempotency_key"` // PK
	Status         Status    `dynamodbav:"status"`
	UserID         string    `dynamodbav:"user_id,omitempty"`
	OrderID        string    `dynamodbav:"order_id,omitempty"`
	Fingerprint    string    `dynamodbav:"fingerprint,omitempty"`   // hash of the checkout payload
	ResponseBody   string    `dynamodbav:"response_body,omitempty"` // replayed to duplicate checkouts
	ResponseStatus int       `dynamodbav:"response_status,omitempty"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note           string    `dynamodbav:"note,omitempty"`
}

// Expired reports whether the record outlived its window. DynamoDB TTL deletion lags behind expires_at.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.Unix() >= r.ExpiresAt
}

// SameRequest reports whether fingerprint matches the one recorded with the key. Records written
// without a fingerprint match anything.
func (r Record) SameRequest(fingerprint string) bool {
	return r.Fingerprint == "" || r.Fingerprint == fingerprint
}
