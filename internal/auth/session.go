// Package auth resolves the caller's identity from the session cookie.
package auth

import (
	"context"
	"net/http"

	"product-resource/internal/model"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "product_session"
	userIDKey   = "user_id"
)

// IdentityLoader loads a user by hex id; (nil, nil) when the user is gone.
type IdentityLoader interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

type Sessions struct {
	store sessions.Store
	users IdentityLoader
}

func NewSessions(secret string, users IdentityLoader) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, users: users}
}

// Identify returns the signed-in user, or nil for anonymous callers.
// A tampered or expired cookie is treated as anonymous.
func (s *Sessions) Identify(r *http.Request) (*model.User, error) {
	sess, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil, nil
	}
	id, _ := sess.Values[userIDKey].(string)
	if id == "" {
		return nil, nil
	}
	return s.users.UserByID(r.Context(), id)
}

// IdentifyCookies does the same for transports that only carry raw Cookie headers.
func (s *Sessions) IdentifyCookies(ctx context.Context, cookies []string) (*model.User, error) {
	if len(cookies) == 0 {
		return nil, nil
	}
	r := (&http.Request{Header: http.Header{"Cookie": cookies}}).WithContext(ctx)
	return s.Identify(r)
}

func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, u *model.User) error {
	sess, _ := s.store.Get(r, SessionName)
	sess.Values[userIDKey] = u.ID.Hex()
	return sess.Save(r, w)
}

func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, SessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the identity attached by the identity middleware, or nil.
func UserFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKey{}).(*model.User)
	return u
}
