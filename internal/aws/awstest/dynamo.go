// Package awstest provides in-memory fakes of the AWS clients for tests.
package awstest

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo is an in-memory stand-in for the orders, idempotency and cart tables.
// It stores items per table in a nested map: table -> pkValue -> item map.
type Dynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// TransactErr, when set, fails every TransactWriteItems call.
	TransactErr error
}

// NewDynamo returns an empty fake.
func NewDynamo() *Dynamo {
	return &Dynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

// Put stores item under pk, bypassing conditions.
func (m *Dynamo) Put(table, pk string, item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(table)[pk] = item
}

// Item returns the stored item for pk.
func (m *Dynamo) Item(table, pk string) (map[string]types.AttributeValue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.table(table)[pk]
	return item, ok
}

// Len counts the items in table.
func (m *Dynamo) Len(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(table))
}

func (m *Dynamo) table(name string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[name]; !ok {
		m.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[name]
}

// primaryKey prefers idempotency_key: idempotency items also carry an order_id.
func primaryKey(item map[string]types.AttributeValue) (string, error) {
	if v, ok := item["cart_key"].(*types.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	if v, ok := item["idempotency_key"].(*types.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	if v, ok := item["order_id"].(*types.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	return "", errors.New("no primary key")
}

func (m *Dynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := primaryKey(params.Item)
	if err != nil {
		return nil, err
	}
	tbl := m.table(*params.TableName)
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := tbl[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *Dynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := primaryKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(*params.TableName)[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *Dynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := primaryKey(params.Key)
	if err != nil {
		return nil, err
	}
	tbl := m.table(*params.TableName)
	item, exists := tbl[pk]
	if !exists {
		return nil, errors.New("item not found")
	}
	values := params.ExpressionAttributeValues

	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		curr, ok := item["status"].(*types.AttributeValueMemberS)
		if !ok || curr.Value != values[":expected"].(*types.AttributeValueMemberS).Value {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	for placeholder, attr := range map[string]string{
		":new":    "status",
		":done":   "status",
		":failed": "status",
		":rb":     "response_body",
		":rs":     "response_status",
		":n":      "note",
		":ua":     "updated_at",
	} {
		if v, ok := values[placeholder]; ok {
			item[attr] = v
		}
	}
	if params.UpdateExpression != nil && strings.Contains(*params.UpdateExpression, "attempts") {
		n := 0
		if cur, ok := item["attempts"].(*types.AttributeValueMemberN); ok {
			n, _ = strconv.Atoi(cur.Value)
		}
		item["attempts"] = &types.AttributeValueMemberN{Value: strconv.Itoa(n + 1)}
	}
	tbl[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *Dynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := primaryKey(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table(*params.TableName), pk)
	return &dyn.DeleteItemOutput{}, nil
}

// Query supports the user_id key condition of the user index, sorted on created_at.
func (m *Dynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid := params.ExpressionAttributeValues[":uid"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.table(*params.TableName) {
		if v, ok := item["user_id"].(*types.AttributeValueMemberS); ok && v.Value == uid {
			items = append(items, item)
		}
	}
	createdAt := func(item map[string]types.AttributeValue) time.Time {
		v, _ := item["created_at"].(*types.AttributeValueMemberS)
		if v == nil {
			return time.Time{}
		}
		t, _ := time.Parse(time.RFC3339Nano, v.Value)
		return t
	}
	forward := params.ScanIndexForward == nil || *params.ScanIndexForward
	sort.Slice(items, func(i, j int) bool {
		if forward {
			return createdAt(items[i]).Before(createdAt(items[j]))
		}
		return createdAt(items[i]).After(createdAt(items[j]))
	})
	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dyn.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (m *Dynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TransactErr != nil {
		return nil, m.TransactErr
	}
	// First pass: verify condition expressions
	for _, it := range params.TransactItems {
		p := it.Put
		if p == nil || p.ConditionExpression == nil {
			continue
		}
		pk, err := primaryKey(p.Item)
		if err != nil {
			return nil, err
		}
		if _, exists := m.table(*p.TableName)[pk]; exists {
			return nil, &types.TransactionCanceledException{}
		}
	}
	// Second pass: apply all puts
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			pk, _ := primaryKey(p.Item)
			m.table(*p.TableName)[pk] = p.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
