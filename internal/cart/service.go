package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-clubshop/internal/kvstore"
)

// StorageKey is the key the cart is saved under in its owner's store.
const StorageKey = "cart"

// Observer is notified with the new snapshot after every change.
type Observer func(Snapshot)

// Service owns one cart: it applies the pure operations, persists each result and notifies observers.
type Service struct {
	mu          sync.Mutex
	snapshot    Snapshot
	checkingOut bool
	version     uint64 // bumped by every change to snapshot

	store  kvstore.Store
	key    string
	orders OrderCreator
	logger *zap.Logger

	obsMu     sync.Mutex
	nextObsID int
	observers map[int]Observer
}

// NewService returns a Service with an empty cart. Call Load to rehydrate it.
func NewService(store kvstore.Store, orders OrderCreator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		key:       StorageKey,
		orders:    orders,
		logger:    logger,
		observers: map[int]Observer{},
	}
}

// Load replaces the cart with the saved one. A change applied while the read was in flight wins over
// what was read. The first load of a missing or unreadable saved cart yields an empty cart; later
// failed reads keep the live cart.
func (s *Service) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	seen := s.version
	s.mu.Unlock()

	read, err := s.read(ctx)

	s.mu.Lock()
	stale := s.checkingOut || s.version != seen
	live := s.version > 0
	switch {
	case stale, err != nil && live:
		// keep the cart held in memory
	case err != nil:
		s.snapshot = Clear()
		s.version++
	default:
		s.snapshot = read
		s.version++
	}
	snap := s.snapshot
	s.mu.Unlock()

	switch {
	case err == nil:
		s.logger.Debug("cart loaded", zap.Int("lines", snap.Len()), zap.Bool("stale_read", stale))
	case stale || live:
		s.logger.Warn("keeping live cart", zap.Error(err))
	default:
		s.logger.Warn("discarding saved cart", zap.Error(err))
	}
	return snap
}

func (s *Service) read(ctx context.Context) (Snapshot, error) {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Clear(), nil
	}
	if err != nil {
		return Snapshot{}, &PersistenceReadError{Key: s.key, Err: err}
	}
	snap, err := UnmarshalSnapshot([]byte(raw))
	if err != nil {
		return Snapshot{}, &PersistenceReadError{Key: s.key, Err: err}
	}
	return snap, nil
}

// Snapshot returns the current cart.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// AddItem adds quantity of p to the cart.
func (s *Service) AddItem(ctx context.Context, p Product, quantity int) (Snapshot, error) {
	return s.mutate(ctx, func(cur Snapshot) (Snapshot, error) {
		return AddItem(cur, p, quantity)
	})
}

// RemoveItem drops the line with key k.
func (s *Service) RemoveItem(ctx context.Context, k Key) (Snapshot, error) {
	return s.mutate(ctx, func(cur Snapshot) (Snapshot, error) {
		return RemoveItem(cur, k), nil
	})
}

// SetQuantity sets the quantity of the line with key k.
func (s *Service) SetQuantity(ctx context.Context, k Key, quantity int) (Snapshot, error) {
	return s.mutate(ctx, func(cur Snapshot) (Snapshot, error) {
		return SetQuantity(cur, k, quantity), nil
	})
}

// IncrementQuantity adds one to the line with key k.
func (s *Service) IncrementQuantity(ctx context.Context, k Key) (Snapshot, error) {
	return s.mutate(ctx, func(cur Snapshot) (Snapshot, error) {
		return IncrementQuantity(cur, k), nil
	})
}

// DecrementQuantity removes one from the line with key k.
func (s *Service) DecrementQuantity(ctx context.Context, k Key) (Snapshot, error) {
	return s.mutate(ctx, func(cur Snapshot) (Snapshot, error) {
		return DecrementQuantity(cur, k), nil
	})
}

// Clear empties the cart and removes the saved copy.
func (s *Service) Clear(ctx context.Context) (Snapshot, error) {
	return s.mutate(ctx, func(Snapshot) (Snapshot, error) {
		return Clear(), nil
	})
}

func (s *Service) mutate(ctx context.Context, op func(Snapshot) (Snapshot, error)) (Snapshot, error) {
	s.mu.Lock()
	if s.checkingOut {
		cur := s.snapshot
		s.mu.Unlock()
		return cur, ErrCheckoutInProgress
	}
	next, err := op(s.snapshot)
	if err != nil {
		cur := s.snapshot
		s.mu.Unlock()
		return cur, err
	}
	s.snapshot = next
	s.version++
	s.persist(ctx, next)
	s.mu.Unlock()

	s.notify(next)
	return next, nil
}

// Checkout places an order for the current cart. Only one checkout may be outstanding at a time;
// mutations are rejected until it finishes.
func (s *Service) Checkout(ctx context.Context, id IdentityProvider, shipping ShippingInfo, payment PaymentInfo) (OrderRecord, error) {
	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return OrderRecord{}, ErrCheckoutInProgress
	}
	s.checkingOut = true
	cur := s.snapshot
	s.mu.Unlock()

	next, rec, err := Checkout(ctx, cur, id, shipping, payment, s.orders)

	s.mu.Lock()
	s.checkingOut = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Info("checkout failed", zap.Error(err), zap.Int("lines", cur.Len()))
		return OrderRecord{}, err
	}
	s.snapshot = next
	s.version++
	s.persist(ctx, next)
	s.mu.Unlock()

	s.logger.Info("checkout completed",
		zap.String("order_id", rec.OrderID),
		zap.String("order_number", rec.OrderNumber))
	s.notify(next)
	return rec, nil
}

// persist writes snap to the store; failures are logged, never returned. Callers hold s.mu.
func (s *Service) persist(ctx context.Context, snap Snapshot) {
	if s.store == nil {
		return
	}
	if snap.IsEmpty() {
		if err := s.store.Remove(ctx, s.key); err != nil {
			s.logger.Error("remove saved cart", zap.String("key", s.key), zap.Error(err))
		}
		return
	}
	b, err := MarshalSnapshot(snap)
	if err != nil {
		s.logger.Error("encode cart", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, s.key, string(b)); err != nil {
		s.logger.Error("save cart", zap.String("key", s.key), zap.Error(err))
	}
}

// Subscribe registers o and returns a function that unregisters it.
func (s *Service) Subscribe(o Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Service) notify(snap Snapshot) {
	s.obsMu.Lock()
	obs := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.obsMu.Unlock()

	for _, o := range obs {
		o(snap)
	}
}
