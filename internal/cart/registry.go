package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/imrishuroy/go-clubshop/internal/kvstore"
)

// Registry hands out one Service per cart owner. Each owner's cart lives in the shared store under
// carts:<owner>:cart.
type Registry struct {
	store  kvstore.Store
	orders OrderCreator
	logger *zap.Logger

	mu       sync.Mutex
	services map[string]*Service
	sfg      singleflight.Group // coalesces concurrent rehydration of the same owner
}

func NewRegistry(store kvstore.Store, orders OrderCreator, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:    store,
		orders:   orders,
		logger:   logger,
		services: map[string]*Service{},
	}
}

// For returns the owner's Service, refreshed from the store so carts saved by other instances are
// picked up. Concurrent calls for the same owner share one read, and a change made while that read
// is in flight is never overwritten by it.
func (r *Registry) For(ctx context.Context, owner string) *Service {
	svc := r.service(owner)
	_, _, _ = r.sfg.Do(owner, func() (interface{}, error) {
		return svc.Load(ctx), nil
	})
	return svc
}

func (r *Registry) service(owner string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.services[owner]; ok {
		return svc
	}
	logger := r.logger.With(zap.String("cart_owner", owner))
	svc := NewService(kvstore.WithPrefix(r.store, "carts:"+owner+":"), r.orders, logger)
	svc.Subscribe(func(s Snapshot) {
		if s.IsEmpty() {
			r.evict(owner, svc)
		}
	})
	r.services[owner] = svc
	return svc
}

// evict forgets an emptied cart; nothing is lost since an empty cart has no saved state.
func (r *Registry) evict(owner string, svc *Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.services[owner] == svc {
		delete(r.services, owner)
	}
}

// Len reports how many owners currently have a live Service.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.services)
}
