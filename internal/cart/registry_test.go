package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-clubshop/internal/kvstore"
)

func TestRegistry_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	reg := NewRegistry(store, nil, nil)

	_, err := reg.For(ctx, "alice").AddItem(ctx, jersey, 1)
	require.NoError(t, err)
	_, err = reg.For(ctx, "bob").AddItem(ctx, scarf, 3)
	require.NoError(t, err)

	assert.Equal(t, 450.0, reg.For(ctx, "alice").Snapshot().TotalPrice())
	assert.Equal(t, 360.0, reg.For(ctx, "bob").Snapshot().TotalPrice())

	raw, err := store.Get(ctx, "carts:alice:cart")
	require.NoError(t, err)
	assert.Contains(t, raw, `"productId":"p1"`)
}

func TestRegistry_ReloadsSavedCart(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	// another instance wrote the cart
	require.NoError(t, store.Set(ctx, "carts:alice:cart", `[{"productId":"p2","name":"Scarf","unitPrice":120,"quantity":2,"imageRef":""}]`))

	reg := NewRegistry(store, nil, nil)
	assert.Equal(t, 240.0, reg.For(ctx, "alice").Snapshot().TotalPrice())

	require.NoError(t, store.Set(ctx, "carts:alice:cart", `[{"productId":"p2","name":"Scarf","unitPrice":120,"quantity":5,"imageRef":""}]`))
	assert.Equal(t, 600.0, reg.For(ctx, "alice").Snapshot().TotalPrice())
}

func TestRegistry_EvictsEmptiedCarts(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(kvstore.NewMemory(), nil, nil)

	svc := reg.For(ctx, "alice")
	_, _ = svc.AddItem(ctx, jersey, 1)
	assert.Equal(t, 1, reg.Len())

	_, _ = svc.DecrementQuantity(ctx, keyOf(jersey))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(kvstore.NewMemory(), nil, nil)

	var wg sync.WaitGroup
	services := make([]*Service, 16)
	for i := range services {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			services[i] = reg.For(ctx, "alice")
		}(i)
	}
	wg.Wait()

	for _, svc := range services[1:] {
		assert.Same(t, services[0], svc)
	}
}

func TestRegistry_ConcurrentReloadKeepsUpdates(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{Store: kvstore.NewMemory()}
	reg := NewRegistry(store, nil, nil)
	first := reg.For(ctx, "alice")

	reading, release := store.hold()
	refreshed := make(chan *Service, 1)
	go func() { refreshed <- reg.For(ctx, "alice") }()

	select {
	case <-reading:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never read the store")
	}
	_, err := first.AddItem(ctx, jersey, 1)
	require.NoError(t, err)
	release()

	second := <-refreshed
	require.Same(t, first, second)
	assert.Equal(t, 1, second.Snapshot().Len())

	_, err = second.AddItem(ctx, scarf, 1)
	require.NoError(t, err)

	raw, err := store.Get(ctx, "carts:alice:cart")
	require.NoError(t, err)
	saved, err := UnmarshalSnapshot([]byte(raw))
	require.NoError(t, err)
	assert.True(t, saved.Contains(keyOf(jersey)))
	assert.True(t, saved.Contains(keyOf(scarf)))
}
