// Package products is the client-side handle on the product API. It mirrors
// the server's resource operations and adds CreateOrUpdate.
package products

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"product-resource/internal/client"
	"product-resource/internal/logger"
	"product-resource/internal/model"
)

const basePath = "/api/products"

// Product is the client view of a product. ID is empty until created.
type Product struct {
	ID                   string         `json:"id,omitempty"`
	Title                string         `json:"title"`
	Content              string         `json:"content"`
	Created              time.Time      `json:"created"`
	User                 *model.UserRef `json:"user,omitempty"`
	IsOwnedByCurrentUser bool           `json:"isOwnedByCurrentUser,omitempty"`
}

// User is the signed-in identity as returned by the sign-in endpoint.
type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
}

func (u *User) HasRole(role string) bool {
	return u != nil && slices.Contains(u.Roles, role)
}

type ProductResource interface {
	Query(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Remove(ctx context.Context, p *Product) error
	CreateOrUpdate(ctx context.Context, p *Product) error
}

// ErrorHook observes every failed call before the error is returned.
type ErrorHook func(ctx context.Context, op string, err error)

func logError(ctx context.Context, op string, err error) {
	logger.Error(ctx, "Product request failed", slog.String("op", op), slog.String("error", err.Error()))
}

type Service struct {
	http    *client.HTTPClient
	onError ErrorHook
}

var _ ProductResource = (*Service)(nil)

func NewService(http *client.HTTPClient) *Service {
	return &Service{http: http, onError: logError}
}

// WithErrorHook replaces the default hook, which logs the failure.
func (s *Service) WithErrorHook(hook ErrorHook) *Service {
	s.onError = hook
	return s
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	if s.onError != nil {
		s.onError(ctx, op, err)
	}
	return err
}

func itemPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func input(p *Product) model.ProductInput {
	return model.ProductInput{Title: p.Title, Content: p.Content}
}

func (s *Service) Query(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.http.Get(ctx, basePath, &out); err != nil {
		return nil, s.fail(ctx, "query", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	out := &Product{}
	if err := s.http.Get(ctx, itemPath(id), out); err != nil {
		return nil, s.fail(ctx, "get", err)
	}
	return out, nil
}

// Create posts p and, when the server answers with a body, replaces p with it.
// On failure p is left as it was.
func (s *Service) Create(ctx context.Context, p *Product) error {
	return s.write(ctx, "create", http.MethodPost, basePath, p, true)
}

func (s *Service) Update(ctx context.Context, p *Product) error {
	return s.write(ctx, "update", http.MethodPut, itemPath(p.ID), p, true)
}

func (s *Service) Remove(ctx context.Context, p *Product) error {
	return s.write(ctx, "remove", http.MethodDelete, itemPath(p.ID), p, false)
}

// CreateOrUpdate updates p when it already has an id and creates it otherwise.
func (s *Service) CreateOrUpdate(ctx context.Context, p *Product) error {
	if p.ID != "" {
		return s.Update(ctx, p)
	}
	return s.Create(ctx, p)
}

func (s *Service) write(ctx context.Context, op, method, path string, p *Product, withBody bool) error {
	opts := client.RequestOptions{Context: ctx, Method: method, URL: path}
	if withBody {
		opts.Body = input(p)
	}
	resp, err := s.http.DoWithResponse(opts)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if len(resp.RawBody) == 0 {
		return nil
	}
	next := *p
	if err := json.Unmarshal(resp.RawBody, &next); err != nil {
		return s.fail(ctx, op, err)
	}
	*p = next
	return nil
}

func (s *Service) SignIn(ctx context.Context, usernameOrEmail, password string) (*User, error) {
	out := &User{}
	body := map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}
	if err := s.http.Post(ctx, "/api/auth/signin", body, out); err != nil {
		return nil, s.fail(ctx, "signin", err)
	}
	return out, nil
}

func (s *Service) SignOut(ctx context.Context) error {
	if err := s.http.Post(ctx, "/api/auth/signout", nil, nil); err != nil {
		return s.fail(ctx, "signout", err)
	}
	return nil
}
