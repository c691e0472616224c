package view

import "product-resource/internal/client/products"

type MenuItem struct {
	Title    string
	State    string
	Type     string
	Roles    []string
	Position int
	Items    []MenuItem
}

type Menu struct {
	ID    string
	Items []MenuItem
}

// Menus returns the products entries for the top bar. The caller owns the
// result and registers it wherever its shell keeps menus.
func Menus() []Menu {
	return []Menu{{
		ID: "topbar",
		Items: []MenuItem{
			{
				Title: "Products",
				State: StateProducts,
				Type:  "dropdown",
				Roles: []string{"user"},
				Items: []MenuItem{
					{Title: "List Products", State: StateList, Roles: []string{"user"}},
				},
			},
			{
				Title: "Admin",
				State: StateAdmin,
				Type:  "dropdown",
				Roles: []string{"admin"},
				Items: []MenuItem{
					{Title: "Manage Products", State: StateAdminList, Roles: []string{"admin"}},
				},
			},
		},
	}}
}

// Visible drops the items u may not see; nil u only sees items without roles.
func Visible(items []MenuItem, u *products.User) []MenuItem {
	var out []MenuItem
	for _, it := range items {
		if !canSee(it.Roles, u) {
			continue
		}
		it.Items = Visible(it.Items, u)
		out = append(out, it)
	}
	return out
}

func canSee(roles []string, u *products.User) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == "*" || u.HasRole(r) {
			return true
		}
	}
	return false
}
