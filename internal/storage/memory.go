package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/nutrimart/storefront/internal/models"
)

// MemStore keeps the catalog in process memory. Ids are server-assigned and
// monotonically increasing, like the relational store's serial columns.
type MemStore struct {
	mu            sync.RWMutex
	products      map[int]models.Product
	users         map[int]models.User
	nextProductID int
	nextUserID    int
}

func NewMemStore() *MemStore {
	return &MemStore{
		products:      make(map[int]models.Product),
		users:         make(map[int]models.User),
		nextProductID: 1,
		nextUserID:    1,
	}
}

// NewSeededMemStore returns a MemStore populated with the initial admin
// account and sample catalog.
func NewSeededMemStore() (*MemStore, error) {
	s := NewMemStore()
	ctx := context.Background()

	admin, err := SeedAdmin()
	if err != nil {
		return nil, err
	}
	if err := s.CreateUser(ctx, &admin); err != nil {
		return nil, err
	}

	for _, p := range SeedProducts() {
		prod := p
		if err := s.CreateProduct(ctx, &prod); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemStore) GetProduct(_ context.Context, id int) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prod, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &prod, nil
}

func (s *MemStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemStore) CreateProduct(_ context.Context, prod *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prod.ID = s.nextProductID
	s.nextProductID++
	s.products[prod.ID] = *prod
	return nil
}

func (s *MemStore) PatchProduct(_ context.Context, id int, patch ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prod, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&prod)
	s.products[id] = prod
	return &prod, nil
}

func (s *MemStore) DeleteProduct(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemStore) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = *user
	return nil
}
