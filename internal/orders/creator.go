package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/aws"
	"github.com/imrishuroy/go-clubshop/internal/cart"
	"github.com/imrishuroy/go-clubshop/internal/idempotency"
	"github.com/imrishuroy/go-clubshop/internal/observability"
)

var (
	// ErrCheckoutPending means another request holding the same idempotency key has not finished.
	ErrCheckoutPending = errors.New("checkout with this idempotency key is still in progress")
	// ErrPreviousAttemptFailed means the key was used by a checkout that failed; retry with a new key.
	ErrPreviousAttemptFailed = errors.New("previous checkout with this idempotency key failed")
	// ErrKeyReused means the key belongs to another user or was sent with a different cart.
	ErrKeyReused = errors.New("idempotency key belongs to another checkout")
)

// EventPublisher enqueues order events for the worker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, payload any, attributes map[string]string) error
}

// Creator persists orders for checkouts. It implements cart.OrderCreator.
type Creator struct {
	orders    *Store
	idem      *idempotency.Store
	publisher EventPublisher
	metrics   *aws.Metrics
	numbers   *NumberGenerator
	logger    *zap.Logger
	newID     func() string
}

var (
	_ cart.OrderCreator  = (*Creator)(nil)
	_ cart.OrderReplayer = (*Creator)(nil)
)

// NewCreator wires a Creator. metrics and logger may be nil.
func NewCreator(orders *Store, idem *idempotency.Store, publisher EventPublisher, metrics *aws.Metrics, logger *zap.Logger) *Creator {
	return &Creator{
		orders:    orders,
		idem:      idem,
		publisher: publisher,
		metrics:   metrics,
		numbers:   NewNumberGenerator(),
		logger:    observability.OrNop(logger),
		newID:     uuid.NewString,
	}
}

// CreateOrder writes the order and its idempotency record in one transaction, then enqueues an
// order.created event. A repeated key replays the order created by the first request.
func (c *Creator) CreateOrder(ctx context.Context, req cart.OrderRequest) (cart.OrderRecord, error) {
	key := idempotency.KeyFromContext(ctx)
	if key == "" {
		key = c.newID()
	}
	logger := c.logger.With(zap.String("idempotency_key", key), zap.String("user_id", req.UserID))

	fingerprint, err := Fingerprint(req)
	if err != nil {
		return cart.OrderRecord{}, err
	}
	order := c.buildOrder(req)
	rec := c.idem.NewRecord(key, req.UserID, order.OrderID)
	rec.Fingerprint = fingerprint

	created, err := c.orders.CreateWithIdempotencyTransaction(ctx, c.idem.Table(), rec, order)
	if errors.Is(err, ErrKeyClaimed) {
		return c.replay(ctx, key, req.UserID, fingerprint)
	}
	if err != nil {
		c.count(ctx, aws.MetricCheckoutFailed, map[string]string{"Reason": "persist"})
		return cart.OrderRecord{}, fmt.Errorf("create order: %w", err)
	}
	logger = logger.With(zap.String("order_id", created.OrderID))

	event := CreatedEvent{
		Type:           EventOrderCreated,
		OrderID:        created.OrderID,
		OrderNumber:    created.OrderNumber,
		UserID:         created.UserID,
		PaymentMethod:  created.Payment.Method,
		IdempotencyKey: key,
		CorrelationID:  observability.RequestID(ctx),
	}
	attrs := map[string]string{
		aws.AttrIdempotencyKey: key,
		aws.AttrOrderID:        created.OrderID,
		aws.AttrCorrelationID:  event.CorrelationID,
	}
	if err := c.publisher.PublishJSON(ctx, event, attrs); err != nil {
		// the key is marked failed so the client retries with a fresh one
		if mErr := c.idem.MarkFailed(ctx, key, fmt.Sprintf("sqs_send_failed: %v", err)); mErr != nil {
			logger.Error("mark idempotency failed", zap.Error(mErr))
		}
		if uErr := c.orders.UpdateStatus(ctx, created.OrderID, StatusPending, StatusCancelled); uErr != nil {
			logger.Error("cancel unpublished order", zap.Error(uErr))
		}
		c.count(ctx, aws.MetricCheckoutFailed, map[string]string{"Reason": "enqueue"})
		return cart.OrderRecord{}, fmt.Errorf("enqueue order: %w", err)
	}

	result := created.Record()
	body, err := json.Marshal(result)
	if err != nil {
		// replays fall back to loading the order
		logger.Warn("encode checkout response", zap.Error(err))
		body = nil
	}
	if err := c.idem.MarkDone(ctx, key, string(body), http.StatusCreated); err != nil {
		logger.Warn("mark idempotency done", zap.Error(err))
	}

	c.count(ctx, aws.MetricCheckoutSucceeded, map[string]string{"PaymentMethod": created.Payment.Method})
	if err := c.metrics.Value(ctx, aws.MetricOrderTotal, created.TotalPrice, nil); err != nil {
		logger.Warn("emit metric", zap.String("metric", aws.MetricOrderTotal), zap.Error(err))
	}
	logger.Info("order created", zap.String("order_number", created.OrderNumber), zap.Float64("total_price", created.TotalPrice))
	return result, nil
}

// ReplayOrder returns the order completed under the request's idempotency key. found is false when
// the request has no key, the key is unknown or its checkout has not completed.
func (c *Creator) ReplayOrder(ctx context.Context, userID string) (cart.OrderRecord, bool, error) {
	key := idempotency.KeyFromContext(ctx)
	if key == "" {
		return cart.OrderRecord{}, false, nil
	}
	rec, err := c.idem.Get(ctx, key)
	if err != nil {
		return cart.OrderRecord{}, false, fmt.Errorf("idempotency check: %w", err)
	}
	if rec == nil || rec.Status != idempotency.StatusDone || rec.UserID != userID {
		return cart.OrderRecord{}, false, nil
	}
	out, err := c.completed(ctx, rec)
	if err != nil {
		return cart.OrderRecord{}, false, err
	}
	return out, true, nil
}

// replay resolves a checkout whose idempotency key was already claimed.
func (c *Creator) replay(ctx context.Context, key, userID, fingerprint string) (cart.OrderRecord, error) {
	rec, err := c.idem.Get(ctx, key)
	if err != nil {
		return cart.OrderRecord{}, fmt.Errorf("idempotency check: %w", err)
	}
	if rec == nil {
		return cart.OrderRecord{}, errors.New("transaction failed but no idempotency record found")
	}
	if rec.UserID != "" && rec.UserID != userID {
		return cart.OrderRecord{}, ErrKeyReused
	}
	if !rec.SameRequest(fingerprint) {
		return cart.OrderRecord{}, ErrKeyReused
	}

	switch rec.Status {
	case idempotency.StatusDone:
		return c.completed(ctx, rec)
	case idempotency.StatusInProgress:
		// a claim that outlived its window belongs to an attempt that never settled
		if rec.Expired(time.Now()) {
			return cart.OrderRecord{}, ErrPreviousAttemptFailed
		}
		return cart.OrderRecord{}, ErrCheckoutPending
	case idempotency.StatusFailed:
		return cart.OrderRecord{}, ErrPreviousAttemptFailed
	default:
		return cart.OrderRecord{}, fmt.Errorf("unknown idempotency status %q", rec.Status)
	}
}

// completed returns the order of a DONE record, from the stored response when it decodes.
func (c *Creator) completed(ctx context.Context, rec *idempotency.Record) (cart.OrderRecord, error) {
	if rec.ResponseBody != "" {
		var out cart.OrderRecord
		if err := json.Unmarshal([]byte(rec.ResponseBody), &out); err == nil && out.OrderID != "" {
			return out, nil
		}
	}
	order, err := c.orders.Get(ctx, rec.OrderID)
	if err != nil {
		return cart.OrderRecord{}, fmt.Errorf("load replayed order: %w", err)
	}
	if order == nil {
		return cart.OrderRecord{}, fmt.Errorf("replayed order %s not found", rec.OrderID)
	}
	return order.Record(), nil
}

func (c *Creator) buildOrder(req cart.OrderRequest) Order {
	lines := make([]Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, Line{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Image:     l.ImageRef,
		})
	}
	return Order{
		OrderID:     c.newID(),
		OrderNumber: c.numbers.Next(),
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		Status:      StatusPending,
		Lines:       lines,
		TotalPrice:  req.TotalPrice,
		ItemCount:   req.ItemCount,
		Shipping: Shipping{
			FullName: req.Shipping.FullName,
			Address:  req.Shipping.Address,
			City:     req.Shipping.City,
			Phone:    req.Shipping.Phone,
		},
		Payment: Payment{
			Method:    req.Payment.Method,
			CardLast4: lastFour(req.Payment.CardNumber),
		},
	}
}

func (c *Creator) count(ctx context.Context, name string, dims map[string]string) {
	if err := c.metrics.Count(ctx, name, dims); err != nil {
		c.logger.Warn("emit metric", zap.String("metric", name), zap.Error(err))
	}
}

// lastFour keeps only the trailing four digits of a card number.
func lastFour(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
