package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-resource/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type staticUsers map[string]*model.User

func (s staticUsers) UserByID(_ context.Context, id string) (*model.User, error) {
	return s[id], nil
}

func TestSessionRoundTrip(t *testing.T) {
	u := &model.User{ID: primitive.NewObjectID(), Username: "admin", Roles: []string{model.RoleAdmin}}
	s := NewSessions("test-secret", staticUsers{u.ID.Hex(): u})

	rec := httptest.NewRecorder()
	if err := s.SignIn(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil), u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.AddCookie(cookies[0])
	got, err := s.Identify(req)
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("Identify = %v, %v", got, err)
	}

	viaHeader, err := s.IdentifyCookies(context.Background(), []string{cookies[0].Name + "=" + cookies[0].Value})
	if err != nil || viaHeader == nil || viaHeader.ID != u.ID {
		t.Errorf("IdentifyCookies = %v, %v", viaHeader, err)
	}
}

func TestIdentifyAnonymous(t *testing.T) {
	s := NewSessions("test-secret", staticUsers{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if u, err := s.Identify(req); u != nil || err != nil {
		t.Errorf("no cookie: %v, %v", u, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "tampered"})
	if u, err := s.Identify(req); u != nil || err != nil {
		t.Errorf("tampered cookie: %v, %v", u, err)
	}
}

func TestSignOutExpiresCookie(t *testing.T) {
	s := NewSessions("test-secret", staticUsers{})
	rec := httptest.NewRecorder()
	if err := s.SignOut(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie not expired: %+v", cookies)
	}
}

func TestUserContext(t *testing.T) {
	if UserFrom(context.Background()) != nil {
		t.Error("empty context has a user")
	}
	u := &model.User{Username: "x"}
	if UserFrom(WithUser(context.Background(), u)) != u {
		t.Error("user not carried by context")
	}
}
