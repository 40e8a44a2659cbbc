package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-clubshop/internal/aws"
)

// ErrAlreadySettled is returned when a key that is no longer IN_PROGRESS is marked again.
var ErrAlreadySettled = errors.New("idempotency key already settled")

// Store keeps checkout keys in DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a configured Store. ttlWindow bounds how long a key deduplicates checkouts.
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// NewRecord returns an IN_PROGRESS record for key claimed by userID for orderID.
func (s *Store) NewRecord(key, userID, orderID string) Record {
	now := s.nowFunc().UTC()
	return Record{
		IdempotencyKey: key,
		Status:         StatusInProgress,
		UserID:         userID,
		OrderID:        orderID,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(s.ttlWindow).Unix(),
	}
}

// TTL returns the deduplication window of the store.
func (s *Store) TTL() time.Duration { return s.ttlWindow }

// Table returns the DynamoDB table backing the store.
func (s *Store) Table() string { return s.tableName }

// Get retrieves the record of key, or (nil, nil) when there is none.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            keyAttr(key),
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

// MarkDone settles key as DONE and stores the response replayed to duplicate checkouts.
func (s *Store) MarkDone(ctx context.Context, key, responseBody string, responseStatus int) error {
	return s.settle(ctx, key, StatusDone, "response_body = :rb, response_status = :rs", map[string]types.AttributeValue{
		":rb": &types.AttributeValueMemberS{Value: responseBody},
		":rs": &types.AttributeValueMemberN{Value: strconv.Itoa(responseStatus)},
	})
}

// MarkFailed settles key as FAILED with a note on what went wrong.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	return s.settle(ctx, key, StatusFailed, "note = :n", map[string]types.AttributeValue{
		":n": &types.AttributeValueMemberS{Value: note},
	})
}

// settle moves an IN_PROGRESS key to status and applies the extra SET clauses.
func (s *Store) settle(ctx context.Context, key string, status Status, set string, values map[string]types.AttributeValue) error {
	values[":new"] = &types.AttributeValueMemberS{Value: string(status)}
	values[":expected"] = &types.AttributeValueMemberS{Value: string(StatusInProgress)}
	values[":ua"] = &types.AttributeValueMemberS{Value: s.nowFunc().UTC().Format(time.RFC3339)}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       keyAttr(key),
		UpdateExpression:          awsString("SET #s = :new, " + set + ", updated_at = :ua"),
		ConditionExpression:       awsString("#s = :expected"),
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
	})
	if isConditionFailure(err) {
		return fmt.Errorf("mark %s %s: %w", key, status, ErrAlreadySettled)
	}
	if err != nil {
		return fmt.Errorf("update item (mark %s): %w", status, err)
	}
	return nil
}

func isConditionFailure(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"idempotency_key": &types.AttributeValueMemberS{Value: key},
	}
}

func awsString(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
