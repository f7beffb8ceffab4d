package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCartStore is an in-memory Store for exercising the persistence path.
type memCartStore struct {
	mu    sync.Mutex
	carts map[string][]LineItem
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string][]LineItem)}
}

func (s *memCartStore) Save(_ context.Context, sessionID string, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = append([]LineItem(nil), items...)
	return nil
}

func (s *memCartStore) Load(_ context.Context, sessionID string) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID], nil
}

func (s *memCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func TestManager_Get_SameSessionSameCart(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, nil, nil)
	defer m.Close()
	ctx := context.Background()

	id := m.NewSessionID()
	first := m.Get(ctx, id)
	first.Add(testProduct(1, "10.00", nil))

	second := m.Get(ctx, id)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.ItemCount())
}

func TestManager_Get_DifferentSessionsIsolated(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, nil, nil)
	defer m.Close()
	ctx := context.Background()

	a := m.Get(ctx, m.NewSessionID())
	b := m.Get(ctx, m.NewSessionID())
	a.Add(testProduct(1, "10.00", nil))

	assert.Equal(t, 1, a.ItemCount())
	assert.Equal(t, 0, b.ItemCount())
}

func TestManager_PersistsMutationsToStore(t *testing.T) {
	t.Parallel()

	store := newMemCartStore()
	m := NewManager(time.Hour, store, nil)
	defer m.Close()
	ctx := context.Background()

	id := m.NewSessionID()
	c := m.Get(ctx, id)
	c.Add(testProduct(1, "10.00", nil))
	c.Add(testProduct(1, "10.00", nil))

	saved, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 2, saved[0].Quantity)
}

func TestManager_RehydratesFromStore(t *testing.T) {
	t.Parallel()

	store := newMemCartStore()
	ctx := context.Background()
	id := "returning-session"
	require.NoError(t, store.Save(ctx, id, []LineItem{
		{ProductID: 7, Name: "saved", UnitPrice: price("12.50"), Quantity: 3},
	}))

	m := NewManager(time.Hour, store, nil)
	defer m.Close()

	c := m.Get(ctx, id)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, c.ItemCount())
}

func TestManager_Drop_ForgetsCartAndStore(t *testing.T) {
	t.Parallel()

	store := newMemCartStore()
	m := NewManager(time.Hour, store, nil)
	defer m.Close()
	ctx := context.Background()

	id := m.NewSessionID()
	c := m.Get(ctx, id)
	c.Add(testProduct(1, "10.00", nil))

	m.Drop(ctx, id)

	saved, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, saved)

	fresh := m.Get(ctx, id)
	assert.NotSame(t, c, fresh)
	assert.Equal(t, 0, fresh.ItemCount())
}
