package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"product-resource/internal/model"
	"product-resource/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

type ProductRepository interface {
	Insert(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRepository interface {
	Insert(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductService struct {
	products ProductRepository
	users    UserRepository
	now      func() time.Time
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(products ProductRepository, users UserRepository) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		now:      time.Now,
	}
}

func validate(in model.ProductInput) (model.ProductInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" {
		return in, &ValidationError{Field: "title", Message: "Title cannot be blank"}
	}
	return in, nil
}

// Create persists a new product owned by requester.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput, requester *model.User) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	if requester == nil {
		return nil, ErrNotAuthorized
	}
	in, err := validate(in)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Title:   in.Title,
		Content: in.Content,
		UserID:  requester.ID,
		// Mongo keeps millisecond precision; truncate so every store returns the same value.
		Created: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	p.User = requester.Ref()
	return p, nil
}

// Resolve loads the product addressed by a path id, with its owner populated.
// It never looks at roles.
func (s *ProductService) Resolve(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Resolve")
	defer span.End()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	p, err := s.products.FindByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	if err := s.populate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) populate(ctx context.Context, p *model.Product) error {
	p.User = nil
	if p.UserID.IsZero() {
		return nil
	}
	u, err := s.users.FindByID(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find product owner: %w", err)
	}
	p.User = u.Ref()
	return nil
}

// Read projects p for requester. The ownership flag is computed here on every
// call and never stored.
func (s *ProductService) Read(p *model.Product, requester *model.User) model.ProductView {
	view := p.View()
	owned := IsOwnedBy(p, requester)
	view.IsOwnedByCurrentUser = &owned
	return view
}

// IsOwnedBy is false for anonymous requesters and orphaned products.
func IsOwnedBy(p *model.Product, requester *model.User) bool {
	return requester != nil && p.User != nil && p.User.ID == requester.ID.Hex()
}

// Update overwrites title and content only.
func (s *ProductService) Update(ctx context.Context, p *model.Product, in model.ProductInput) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Update")
	defer span.End()

	in, err := validate(in)
	if err != nil {
		return nil, err
	}

	updated := *p
	updated.Title = in.Title
	updated.Content = in.Content
	if err := s.products.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &updated, nil
}

// Delete removes p and hands back its last-known state.
func (s *ProductService) Delete(ctx context.Context, p *model.Product) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	if err := s.products.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}

// List returns every product newest first, owners' display names populated.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.List")
	defer span.End()

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, p := range products {
		if !p.UserID.IsZero() && !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate product owners: %w", err)
	}
	owners := make(map[primitive.ObjectID]*model.UserRef, len(users))
	for i := range users {
		owners[users[i].ID] = users[i].Ref()
	}
	for i := range products {
		products[i].User = owners[products[i].UserID]
	}
	return products, nil
}
