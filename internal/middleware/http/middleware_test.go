package middleware_http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-resource/internal/auth"
	"product-resource/internal/model"
	"product-resource/internal/policy"

	"github.com/gorilla/mux"
)

func TestTraceMiddlewareRecoversPanic(t *testing.T) {
	h := TraceMiddleware(context.Background())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id")
	}
}

func TestTraceMiddlewareKeepsRequestID(t *testing.T) {
	h := TraceMiddleware(context.Background())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || rec.Header().Get(RequestIDHeader) != "abc" {
		t.Errorf("status %d request id %q", rec.Code, rec.Header().Get(RequestIDHeader))
	}
}

type staticIdentity struct{ user *model.User }

func (s staticIdentity) Identify(*http.Request) (*model.User, error) { return s.user, nil }

func TestAuthorizeUsesRouteTemplate(t *testing.T) {
	admin := &model.User{Username: "admin", Roles: []string{model.RoleUser, model.RoleAdmin}}
	user := &model.User{Username: "user", Roles: []string{model.RoleUser}}

	tests := []struct {
		name   string
		user   *model.User
		method string
		want   int
	}{
		{"guest read", nil, http.MethodGet, http.StatusOK},
		{"user read", user, http.MethodGet, http.StatusOK},
		{"user delete", user, http.MethodDelete, http.StatusForbidden},
		{"guest delete", nil, http.MethodDelete, http.StatusForbidden},
		{"admin delete", admin, http.MethodDelete, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.Use(Identity(staticIdentity{tt.user}))
			r.Use(Authorize(policy.ProductsACL()))
			r.HandleFunc(policy.ProductResource, func(w http.ResponseWriter, r *http.Request) {
				if auth.UserFrom(r.Context()) != tt.user {
					t.Error("identity not propagated")
				}
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/products/559e9cd815f80b4c256a8f41", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
