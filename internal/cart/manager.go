package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sweepInterval = time.Hour

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

// Manager owns one cart engine per shopping session. Carts are created on
// first use and pruned after sitting idle for the configured TTL. When a
// Store is set, carts are rehydrated from it on a registry miss and saved
// after every mutation through a persisting observer.
type Manager struct {
	mu     sync.Mutex
	carts  map[string]*entry
	ttl    time.Duration
	store  Store
	logger *slog.Logger
	done   chan struct{}
	once   sync.Once
}

func NewManager(ttl time.Duration, store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		carts:  make(map[string]*entry),
		ttl:    ttl,
		store:  store,
		logger: logger,
		done:   make(chan struct{}),
	}
	go m.sweep()
	return m
}

// NewSessionID mints an id for the cart session cookie.
func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

// Get returns the cart owned by the session, creating it if needed.
func (m *Manager) Get(ctx context.Context, sessionID string) *Cart {
	m.mu.Lock()
	if e, ok := m.carts[sessionID]; ok {
		e.lastSeen = time.Now()
		c := e.cart
		m.mu.Unlock()
		return c
	}

	c := New()
	m.carts[sessionID] = &entry{cart: c, lastSeen: time.Now()}
	m.mu.Unlock()

	if m.store != nil {
		items, err := m.store.Load(ctx, sessionID)
		if err != nil {
			m.logger.Error("cart_restore_failed", "session_id", sessionID, "error", err)
		} else if len(items) > 0 {
			c.Restore(items)
		}
		c.Subscribe(m.persister(sessionID))
	}
	return c
}

// Drop forgets the session's cart and removes it from the durable store.
func (m *Manager) Drop(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.carts, sessionID)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			m.logger.Error("cart_delete_failed", "session_id", sessionID, "error", err)
		}
	}
}

func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Manager) persister(sessionID string) Observer {
	return func(s Summary) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.Save(ctx, sessionID, s.Items); err != nil {
			m.logger.Error("cart_save_failed", "session_id", sessionID, "error", err)
		}
	}
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for id, e := range m.carts {
				if now.Sub(e.lastSeen) > m.ttl {
					delete(m.carts, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
