package awstest

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQS records sent messages. Err, when set, fails every send.
type SQS struct {
	mu       sync.Mutex
	messages []*sqs.SendMessageInput

	Err error
}

func (q *SQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return nil, q.Err
	}
	q.messages = append(q.messages, params)
	return &sqs.SendMessageOutput{}, nil
}

// Bodies returns the bodies of all sent messages in order.
func (q *SQS) Bodies() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.messages))
	for _, m := range q.messages {
		if m.MessageBody != nil {
			out = append(out, *m.MessageBody)
		}
	}
	return out
}
