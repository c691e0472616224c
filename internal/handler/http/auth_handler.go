package http

import (
	"log/slog"
	"net/http"

	"product-resource/internal/auth"
	"product-resource/internal/logger"
	"product-resource/internal/service"

	"go.opentelemetry.io/otel"
)

type AuthHandler struct {
	service  *service.AuthService
	sessions *auth.Sessions
}

type signInRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

var HttpAuthHandlerTracer = otel.Tracer("HttpAuthHandler")

func NewAuthHandler(service *service.AuthService, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.SignIn")
	defer span.End()

	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	u, err := h.service.SignIn(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.sessions.SignIn(w, r, u); err != nil {
		writeError(ctx, w, err)
		return
	}
	logger.Info(ctx, "User signed in", slog.String("user_id", u.ID.Hex()))
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.SignUp")
	defer span.End()

	var in service.SignUpInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(ctx, w, err)
		return
	}
	u, err := h.service.SignUp(ctx, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.sessions.SignIn(w, r, u); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpAuthHandlerTracer.Start(r.Context(), "HttpAuthHandler.SignOut")
	defer span.End()

	if err := h.sessions.SignOut(w, r); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Signed out")
}
