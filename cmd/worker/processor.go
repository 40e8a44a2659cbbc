package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/orders"
)

// Processor handles order events from SQS and moves orders through their lifecycle.
type Processor struct {
	orderStore *orders.Store
	logger     *zap.Logger
}

// NewProcessor creates a new worker processor.
func NewProcessor(orderStore *orders.Store, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{orderStore: orderStore, logger: logger}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Debug("received batch", zap.Int("records", len(ev.Records)))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Lambda retries the batch; repeated failures land in the DLQ.
			p.logger.Error("process message", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg orders.CreatedEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.OrderID == "" {
		return errors.New("message without order_id")
	}
	if msg.Type != "" && msg.Type != orders.EventOrderCreated {
		p.logger.Warn("skipping unknown event", zap.String("type", msg.Type))
		return nil
	}

	logger := p.logger.With(
		zap.String("order_id", msg.OrderID),
		zap.String("idempotency_key", msg.IdempotencyKey),
		zap.String("correlation_id", msg.CorrelationID),
	)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	if err := p.orderStore.IncrementAttempts(ctx, msg.OrderID); err != nil {
		logger.Warn("increment attempts", zap.Error(err))
	}

	err = p.orderStore.UpdateStatus(ctx, msg.OrderID, orders.StatusPending, orders.StatusPaid)
	if errors.Is(err, orders.ErrStatusMismatch) {
		current, getErr := p.orderStore.Get(ctx, msg.OrderID)
		if getErr != nil {
			return fmt.Errorf("re-read order after conflict: %w", getErr)
		}
		if current == nil {
			return fmt.Errorf("order vanished: %s", msg.OrderID)
		}
		switch current.Status {
		case orders.StatusPaid:
			logger.Info("duplicate delivery for paid order")
			return nil
		case orders.StatusCancelled:
			logger.Info("skipping cancelled order")
			return nil
		default:
			return fmt.Errorf("unexpected status for order=%s: %s", msg.OrderID, current.Status)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	logger.Info("order paid", zap.String("order_number", order.OrderNumber), zap.String("payment_method", msg.PaymentMethod))
	return nil
}
