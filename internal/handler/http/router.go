package http

import (
	"net/http"

	"product-resource/internal/auth"
	middleware_http "product-resource/internal/middleware/http"
	"product-resource/internal/policy"
	"product-resource/internal/service"

	"github.com/gorilla/mux"
)

type RouterDeps struct {
	Products *service.ProductService
	Auth     *service.AuthService
	Sessions *auth.Sessions
	Health   *service.HealthService
	ACL      *policy.ACL
}

// NewRouter wires identity, policy and resolve-by-id in that order ahead of
// the product handlers.
func NewRouter(deps RouterDeps) *mux.Router {
	productHandler := NewProductHandler(deps.Products)
	authHandler := NewAuthHandler(deps.Auth, deps.Sessions)
	healthHandler := NewHealthHandler(deps.Health)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = methodNotAllowed
	r.Use(middleware_http.Identity(deps.Sessions))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"data": "hello-world"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler.Check).Methods(http.MethodGet)

	a := r.PathPrefix("/api/auth").Subrouter()
	pathMethods(a, "/signin").Methods(http.MethodPost).HandlerFunc(authHandler.SignIn)
	pathMethods(a, "/signup").Methods(http.MethodPost).HandlerFunc(authHandler.SignUp)
	pathMethods(a, "/signout").Methods(http.MethodPost, http.MethodGet).HandlerFunc(authHandler.SignOut)

	p := r.PathPrefix(policy.ProductsResource).Subrouter()
	p.Use(middleware_http.Authorize(deps.ACL))

	col := pathMethods(p, "")
	col.Methods(http.MethodGet).HandlerFunc(productHandler.List)
	col.Methods(http.MethodPost).HandlerFunc(productHandler.Create)

	item := pathMethods(p, "/{productId}")
	item.Methods(http.MethodGet).Handler(productHandler.ProductByID(http.HandlerFunc(productHandler.Read)))
	item.Methods(http.MethodPut).Handler(productHandler.ProductByID(http.HandlerFunc(productHandler.Update)))
	item.Methods(http.MethodDelete).Handler(productHandler.ProductByID(http.HandlerFunc(productHandler.Delete)))

	return r
}

var methodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
})

// pathMethods claims tpl under parent so that a method missing from the
// routes registered on it answers 405 rather than falling through to
// sibling paths.
func pathMethods(parent *mux.Router, tpl string) *mux.Router {
	sub := parent.Path(tpl).Subrouter()
	sub.MethodNotAllowedHandler = methodNotAllowed
	return sub
}
