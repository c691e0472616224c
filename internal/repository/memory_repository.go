package repository

import (
	"context"
	"sort"
	"sync"

	"product-resource/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryProductRepository keeps products in a map. Used with STORE_DRIVER=memory and in tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]model.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[primitive.ObjectID]model.Product),
	}
}

func (s *MemoryProductRepository) Insert(_ context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	stored := *product
	stored.User = nil
	s.products[product.ID] = stored
	return nil
}

func (s *MemoryProductRepository) FindAll(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if !products[i].Created.Equal(products[j].Created) {
			return products[i].Created.After(products[j].Created)
		}
		return products[i].ID.Hex() > products[j].ID.Hex()
	})
	return products, nil
}

func (s *MemoryProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryProductRepository) Update(_ context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = product.Title
	stored.Content = product.Content
	s.products[product.ID] = stored
	return nil
}

func (s *MemoryProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryProductRepository) Ping(context.Context) error { return nil }

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[primitive.ObjectID]model.User),
	}
}

func (s *MemoryUserRepository) Insert(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	stored.Roles = append([]string(nil), user.Roles...)
	s.users[user.ID] = stored
	return nil
}

func (s *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserRepository) FindByLogin(_ context.Context, usernameOrEmail string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == usernameOrEmail || (u.Email != "" && u.Email == usernameOrEmail) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *MemoryUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}
