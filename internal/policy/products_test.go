package policy

import (
	"net/http"
	"testing"

	"product-resource/internal/model"
)

func TestProductsACL(t *testing.T) {
	acl := ProductsACL()
	admin := &model.User{Roles: []string{model.RoleUser, model.RoleAdmin}}
	user := &model.User{Roles: []string{model.RoleUser}}

	tests := []struct {
		name     string
		user     *model.User
		resource string
		verb     string
		want     bool
	}{
		{"guest lists", nil, ProductsResource, http.MethodGet, true},
		{"guest reads", nil, ProductResource, http.MethodGet, true},
		{"guest creates", nil, ProductsResource, http.MethodPost, false},
		{"guest deletes", nil, ProductResource, http.MethodDelete, false},
		{"user reads", user, ProductResource, http.MethodGet, true},
		{"user creates", user, ProductsResource, http.MethodPost, false},
		{"user updates", user, ProductResource, http.MethodPut, false},
		{"user deletes", user, ProductResource, http.MethodDelete, false},
		{"admin creates", admin, ProductsResource, http.MethodPost, true},
		{"admin updates", admin, ProductResource, http.MethodPut, true},
		{"admin deletes lowercase verb", admin, ProductResource, "delete", true},
		{"admin unknown resource", admin, "/api/users", http.MethodGet, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acl.Allowed(Roles(tt.user), tt.resource, tt.verb); got != tt.want {
				t.Errorf("Allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRolesDefaultsToGuest(t *testing.T) {
	if r := Roles(&model.User{}); len(r) != 1 || r[0] != model.RoleGuest {
		t.Errorf("Roles(no roles) = %v", r)
	}
}
