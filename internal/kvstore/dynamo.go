package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-clubshop/internal/aws"
)

// item is the shape persisted in the carts table.
type item struct {
	Key       string `dynamodbav:"cart_key"` // PK
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
	ExpiresAt int64  `dynamodbav:"expires_at,omitempty"` // TTL epoch seconds
}

// Dynamo stores values in a DynamoDB table keyed by cart_key.
type Dynamo struct {
	client    aws.DynamoDBAPI
	tableName string
	ttl       time.Duration
	nowFunc   func() time.Time
}

func NewDynamo(client aws.DynamoDBAPI, tableName string, ttl time.Duration) *Dynamo {
	return &Dynamo{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		nowFunc:   time.Now,
	}
}

func (d *Dynamo) Get(ctx context.Context, key string) (string, error) {
	out, err := d.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &d.tableName,
		Key:       keyAttr(key),
	})
	if err != nil {
		return "", fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return "", ErrNotFound
	}
	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return "", fmt.Errorf("unmarshal item: %w", err)
	}
	if it.ExpiresAt > 0 && d.nowFunc().Unix() >= it.ExpiresAt {
		// DynamoDB TTL deletion lags; expired items are treated as absent
		return "", ErrNotFound
	}
	return it.Value, nil
}

func (d *Dynamo) Set(ctx context.Context, key, value string) error {
	now := d.nowFunc()
	it := item{
		Key:       key,
		Value:     value,
		UpdatedAt: now.UTC().Format(time.RFC3339),
	}
	if d.ttl > 0 {
		it.ExpiresAt = now.Add(d.ttl).Unix()
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (d *Dynamo) Remove(ctx context.Context, key string) error {
	if _, err := d.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &d.tableName,
		Key:       keyAttr(key),
	}); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"cart_key": &types.AttributeValueMemberS{Value: key},
	}
}
