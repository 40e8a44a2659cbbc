package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestPublishJSON_SendsBodyAndAttributes(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/orders")

	err := p.PublishJSON(context.Background(), map[string]string{"order_id": "o1"}, map[string]string{
		"order_id":       "o1",
		"correlation_id": "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.QueueUrl != "https://sqs.local/orders" {
		t.Fatalf("queue url mismatch: %s", *in.QueueUrl)
	}
	if *in.MessageBody != `{"order_id":"o1"}` {
		t.Fatalf("body mismatch: %s", *in.MessageBody)
	}
	if _, ok := in.MessageAttributes["correlation_id"]; ok {
		t.Fatalf("empty attribute should be skipped")
	}
	if v := in.MessageAttributes["order_id"]; v.StringValue == nil || *v.StringValue != "o1" {
		t.Fatalf("order_id attribute missing: %+v", v)
	}
}

func TestSend_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPublisher(&mockSQS{err: boom}, "q")

	err := p.Send(context.Background(), "{}", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestSend_FIFOQueueGroupsByOrder(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/orders.fifo")

	if err := p.Send(context.Background(), "{}", map[string]string{
		AttrOrderID:        "o1",
		AttrIdempotencyKey: "key-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := mock.inputs[0]
	if in.MessageGroupId == nil || *in.MessageGroupId != "o1" {
		t.Fatalf("group id mismatch: %v", in.MessageGroupId)
	}
	if in.MessageDeduplicationId == nil || *in.MessageDeduplicationId != "key-1" {
		t.Fatalf("dedup id mismatch: %v", in.MessageDeduplicationId)
	}

	// standard queues carry neither
	p = NewPublisher(mock, "https://sqs.local/orders")
	_ = p.Send(context.Background(), "{}", map[string]string{AttrOrderID: "o2"})
	if in := mock.inputs[1]; in.MessageGroupId != nil || in.MessageDeduplicationId != nil {
		t.Fatalf("standard queue got FIFO fields: %+v", in)
	}
}
