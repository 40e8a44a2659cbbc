package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Message attributes with a meaning on FIFO queues.
const (
	AttrOrderID        = "order_id"
	AttrIdempotencyKey = "idempotency_key"
	AttrCorrelationID  = "correlation_id"
)

// Publisher sends order events to one SQS queue.
type Publisher struct {
	client   SQSAPI
	queueURL string
	fifo     bool
}

// NewPublisher returns a Publisher bound to queueURL. A ".fifo" queue gets per-order message
// groups and deduplication ids taken from the message attributes.
func NewPublisher(client SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
		fifo:     strings.HasSuffix(queueURL, ".fifo"),
	}
}

// Send enqueues body. Attributes with empty values are dropped.
func (p *Publisher) Send(ctx context.Context, body string, attributes map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:          &p.queueURL,
		MessageBody:       &body,
		MessageAttributes: messageAttributes(attributes),
	}
	if p.fifo {
		group := attributes[AttrOrderID]
		if group == "" {
			group = "orders"
		}
		input.MessageGroupId = awsString(group)
		if dedup := attributes[AttrIdempotencyKey]; dedup != "" {
			input.MessageDeduplicationId = awsString(dedup)
		}
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// PublishJSON marshals payload and sends it with the given attributes.
func (p *Publisher) PublishJSON(ctx context.Context, payload any, attributes map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.Send(ctx, string(body), attributes)
}

func messageAttributes(attributes map[string]string) map[string]sqstypes.MessageAttributeValue {
	var out map[string]sqstypes.MessageAttributeValue
	for k, v := range attributes {
		if v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]sqstypes.MessageAttributeValue, len(attributes))
		}
		out[k] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: awsString(v),
		}
	}
	return out
}

func awsString(s string) *string { return &s }
