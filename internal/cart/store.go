package cart

import "context"

// Store is the optional durable backing for session carts. The cart stays
// ephemeral unless a Store is injected into the Manager.
type Store interface {
	Save(ctx context.Context, sessionID string, items []LineItem) error
	// Load returns nil items and nil error when no cart is stored.
	Load(ctx context.Context, sessionID string) ([]LineItem, error)
	Delete(ctx context.Context, sessionID string) error
}
