package products

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-resource/internal/auth"
	"product-resource/internal/client"
	handler "product-resource/internal/handler/http"
	"product-resource/internal/policy"
	"product-resource/internal/repository"
	"product-resource/internal/service"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	products := repository.NewMemoryProductRepository()
	authService := service.NewAuthService(users)
	if _, _, err := authService.EnsureAdmin(context.Background(), "admin", "admin-password", "Admin"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	srv := httptest.NewServer(handler.NewRouter(handler.RouterDeps{
		Products: service.NewProductService(products, users),
		Auth:     authService,
		Sessions: auth.NewSessions("test-secret", authService),
		Health:   service.NewHealthService(map[string]service.Pinger{"memory": products}),
		ACL:      policy.ProductsACL(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

type recordedError struct {
	op  string
	err error
}

func newService(baseURL string) (*Service, *[]recordedError) {
	var seen []recordedError
	svc := NewService(client.NewHTTPClient(baseURL, 5*time.Second)).
		WithErrorHook(func(_ context.Context, op string, err error) {
			seen = append(seen, recordedError{op, err})
		})
	return svc, &seen
}

func TestCreateOrUpdateAgainstAPI(t *testing.T) {
	srv := newAPI(t)
	svc, seen := newService(srv.URL)
	ctx := context.Background()

	if _, err := svc.SignIn(ctx, "admin", "admin-password"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	p := &Product{Title: "T", Content: "C"}
	if err := svc.CreateOrUpdate(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.User == nil || p.User.DisplayName != "Admin" {
		t.Fatalf("after create p = %+v", p)
	}

	id := p.ID
	p.Title = "T2"
	if err := svc.CreateOrUpdate(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.ID != id || p.Title != "T2" {
		t.Errorf("after update p = %+v", p)
	}

	list, err := svc.Query(ctx)
	if err != nil || len(list) != 1 || list[0].ID != id {
		t.Fatalf("Query = %+v, %v", list, err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil || !got.IsOwnedByCurrentUser {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := svc.Remove(ctx, p); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, err = svc.Get(ctx, id)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Get after remove err = %v", err)
	}
	if apiErr.Message != "No product with that identifier has been found" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if len(*seen) != 1 || (*seen)[0].op != "get" {
		t.Errorf("hook calls = %+v", *seen)
	}
}

func TestFailedSaveLeavesInstanceUntouched(t *testing.T) {
	srv := newAPI(t)
	svc, seen := newService(srv.URL)
	ctx := context.Background()

	p := &Product{Title: "T"}
	err := svc.CreateOrUpdate(ctx, p)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "User is not authorized" {
		t.Fatalf("err = %v", err)
	}
	if p.ID != "" || p.Title != "T" {
		t.Errorf("p changed: %+v", p)
	}
	if len(*seen) != 1 || (*seen)[0].op != "create" {
		t.Errorf("hook calls = %+v", *seen)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	svc, seen := newService(srv.URL)

	p := &Product{ID: "559e9cd815f80b4c256a8f41", Title: "T"}
	if err := svc.Remove(context.Background(), p); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if p.Title != "T" {
		t.Errorf("p = %+v", p)
	}
	if len(*seen) != 0 {
		t.Errorf("hook calls = %+v", *seen)
	}
}
