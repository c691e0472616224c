package middleware_http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"product-resource/internal/auth"
	"product-resource/internal/logger"
	"product-resource/internal/policy"

	"github.com/gorilla/mux"
)

// Authorize checks the matched route template and method against acl before
// any handler or resolve hook runs.
func Authorize(acl *policy.ACL) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					resource = tpl
				}
			}

			u := auth.UserFrom(r.Context())
			if !acl.Allowed(policy.Roles(u), resource, r.Method) {
				logger.Warn(r.Context(), "Request denied by policy",
					slog.String("resource", resource),
					slog.String("method", r.Method),
					slog.Any("roles", policy.Roles(u)),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "User is not authorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
