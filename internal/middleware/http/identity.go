package middleware_http

import (
	"log/slog"
	"net/http"

	"product-resource/internal/auth"
	"product-resource/internal/logger"
	"product-resource/internal/model"
)

// Identifier resolves the caller of a request; nil means anonymous.
type Identifier interface {
	Identify(r *http.Request) (*model.User, error)
}

// Identity attaches the caller to the request context. Lookup failures
// degrade to anonymous, which the policy then treats as a guest.
func Identity(id Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := id.Identify(r)
			if err != nil {
				logger.Warn(r.Context(), "Failed to resolve session user", slog.String("error", err.Error()))
				u = nil
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}
