package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"product-resource/internal/client/products"
)

const (
	StateAdmin       = "admin"
	StateProducts    = "products"
	StateList        = "products.list"
	StateView        = "products.view"
	StateAdminRoot   = "admin.products"
	StateAdminList   = "admin.products.list"
	StateAdminCreate = "admin.products.create"
	StateAdminEdit   = "admin.products.edit"
)

var (
	ErrUnknownState   = errors.New("unknown state")
	ErrAbstractState  = errors.New("abstract state cannot be entered")
	ErrSignInRequired = errors.New("authentication required")
	ErrForbidden      = errors.New("forbidden")
)

// Resolver loads the product a state needs before its controller activates.
type Resolver func(ctx context.Context, resource products.ProductResource, params Params) (*products.Product, error)

type State struct {
	Name      string
	URL       string
	Abstract  bool
	Roles     []string
	PageTitle string
	Resolve   Resolver
}

func getProduct(ctx context.Context, resource products.ProductResource, params Params) (*products.Product, error) {
	return resource.Get(ctx, params["productId"])
}

func newProduct(context.Context, products.ProductResource, Params) (*products.Product, error) {
	return &products.Product{}, nil
}

// States returns the products screens. The "admin" parent is the shell's
// admin area and is included so role gating and URLs resolve.
func States() []State {
	return []State{
		{Name: StateAdmin, URL: "/admin", Abstract: true, Roles: []string{"admin"}},
		{Name: StateProducts, URL: "/products", Abstract: true},
		{Name: StateList, URL: "", PageTitle: "Products List"},
		{Name: StateView, URL: "/:productId", PageTitle: "Product {{ productResolve.title }}", Resolve: getProduct},
		{Name: StateAdminRoot, URL: "/products", Abstract: true},
		{Name: StateAdminList, URL: "", Roles: []string{"admin"}},
		{Name: StateAdminCreate, URL: "/create", PageTitle: "Products Create", Resolve: newProduct},
		{Name: StateAdminEdit, URL: "/:productId/edit", PageTitle: "Edit Product {{ productResolve.title }}", Resolve: getProduct},
	}
}

// Page is what the router shows after a successful transition.
type Page struct {
	State  State
	Params Params
	List   *ListController
	Detail *DetailController
	Admin  *AdminController
}

// StateRouter is the Navigator: it gates on roles, runs resolvers and
// activates the controller for the target state.
type StateRouter struct {
	states   map[string]State
	resource products.ProductResource
	notify   Notifier
	bus      Broadcaster

	mu      sync.Mutex
	user    *products.User
	current *Page
}

func NewStateRouter(states []State, resource products.ProductResource, notify Notifier, bus Broadcaster) *StateRouter {
	r := &StateRouter{
		states:   make(map[string]State, len(states)),
		resource: resource,
		notify:   notify,
		bus:      bus,
	}
	for _, s := range states {
		r.states[s.Name] = s
	}
	return r
}

// SetUser changes the identity used for role checks; nil signs out.
func (r *StateRouter) SetUser(u *products.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = u
}

func (r *StateRouter) Current() *Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// chain returns name and its ancestors, root first.
func (r *StateRouter) chain(name string) ([]State, error) {
	var out []State
	parts := strings.Split(name, ".")
	for i := range parts {
		s, ok := r.states[strings.Join(parts[:i+1], ".")]
		if !ok {
			if i == len(parts)-1 {
				return nil, fmt.Errorf("%w: %s", ErrUnknownState, name)
			}
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *StateRouter) allowed(chain []State, u *products.User) error {
	for _, s := range chain {
		if len(s.Roles) == 0 {
			continue
		}
		if u == nil {
			return ErrSignInRequired
		}
		ok := false
		for _, role := range s.Roles {
			if u.HasRole(role) {
				ok = true
				break
			}
		}
		if !ok {
			return ErrForbidden
		}
	}
	return nil
}

// Href builds the URL of a state by joining its ancestors' URLs.
func (r *StateRouter) Href(name string, params Params) (string, error) {
	chain, err := r.chain(name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, s := range chain {
		b.WriteString(s.URL)
	}
	href := b.String()
	for k, v := range params {
		href = strings.ReplaceAll(href, ":"+k, v)
	}
	if href == "" {
		href = "/"
	}
	return href, nil
}

func (r *StateRouter) Go(ctx context.Context, name string, params Params) error {
	chain, err := r.chain(name)
	if err != nil {
		return err
	}
	target := chain[len(chain)-1]
	if target.Abstract {
		return fmt.Errorf("%w: %s", ErrAbstractState, name)
	}

	r.mu.Lock()
	user := r.user
	r.mu.Unlock()
	if err := r.allowed(chain, user); err != nil {
		return err
	}

	var product *products.Product
	if target.Resolve != nil {
		product, err = target.Resolve(ctx, r.resource, params)
		if err != nil {
			return err
		}
	}

	page := &Page{State: target, Params: params}
	switch name {
	case StateList, StateAdminList:
		page.List = NewListController(r.resource)
		if err := page.List.Activate(ctx); err != nil {
			return err
		}
	case StateView:
		page.Detail = NewDetailController(product, user)
	case StateAdminCreate, StateAdminEdit:
		page.Admin = NewAdminController(product, r.resource, r, r.notify, r.bus)
	}

	r.mu.Lock()
	r.current = page
	r.mu.Unlock()
	return nil
}
