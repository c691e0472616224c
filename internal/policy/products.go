// Package policy decides, per role, which verbs may reach a resource.
package policy

import (
	"net/http"
	"strings"

	"product-resource/internal/model"
)

const (
	ProductsResource = "/api/products"
	ProductResource  = "/api/products/{productId}"
)

// Rule grants verbs on a resource to a role. "*" matches every verb.
type Rule struct {
	Role     string
	Resource string
	Verbs    []string
}

type ACL struct {
	rules map[string]map[string][]string
}

func NewACL(rules ...Rule) *ACL {
	acl := &ACL{rules: make(map[string]map[string][]string)}
	for _, r := range rules {
		if acl.rules[r.Role] == nil {
			acl.rules[r.Role] = make(map[string][]string)
		}
		acl.rules[r.Role][r.Resource] = append(acl.rules[r.Role][r.Resource], r.Verbs...)
	}
	return acl
}

// ProductsACL: admins may do anything, everyone else may only read.
func ProductsACL() *ACL {
	return NewACL(
		Rule{Role: model.RoleAdmin, Resource: ProductsResource, Verbs: []string{"*"}},
		Rule{Role: model.RoleAdmin, Resource: ProductResource, Verbs: []string{"*"}},
		Rule{Role: model.RoleUser, Resource: ProductsResource, Verbs: []string{http.MethodGet}},
		Rule{Role: model.RoleUser, Resource: ProductResource, Verbs: []string{http.MethodGet}},
		Rule{Role: model.RoleGuest, Resource: ProductsResource, Verbs: []string{http.MethodGet}},
		Rule{Role: model.RoleGuest, Resource: ProductResource, Verbs: []string{http.MethodGet}},
	)
}

// Allowed reports whether any of roles grants verb on resource.
func (a *ACL) Allowed(roles []string, resource, verb string) bool {
	verb = strings.ToUpper(verb)
	for _, role := range roles {
		for _, v := range a.rules[role][resource] {
			if v == "*" || v == verb {
				return true
			}
		}
	}
	return false
}

// Roles returns the roles used for the policy check; anonymous callers are guests.
func Roles(u *model.User) []string {
	if u == nil || len(u.Roles) == 0 {
		return []string{model.RoleGuest}
	}
	return u.Roles
}
