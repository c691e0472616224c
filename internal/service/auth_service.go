package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"product-resource/internal/model"
	"product-resource/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

type AuthService struct {
	users UserRepository
}

type SignUpInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

const minPasswordLength = 8

var AuthServiceTracer = otel.Tracer("AuthService")

func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{users: users}
}

// SignIn checks credentials; unknown user and wrong password look the same.
func (s *AuthService) SignIn(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	u, err := s.users.FindByLogin(ctx, strings.TrimSpace(usernameOrEmail))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !model.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// SignUp registers a plain user (role "user").
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	return s.register(ctx, in, []string{model.RoleUser})
}

func (s *AuthService) register(ctx context.Context, in SignUpInput, roles []string) (*model.User, error) {
	ctx, span := AuthServiceTracer.Start(ctx, "AuthService.register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Username == "" {
		return nil, &ValidationError{Field: "username", Message: "Username cannot be blank"}
	}
	if len(in.Password) < minPasswordLength {
		return nil, &ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}

	hash, err := model.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates the admin account when no user with that username exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, displayName string) (*model.User, bool, error) {
	existing, err := s.users.FindByLogin(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("find admin: %w", err)
	}
	u, err := s.register(ctx, SignUpInput{Username: username, Password: password, DisplayName: displayName},
		[]string{model.RoleUser, model.RoleAdmin})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// UserByID loads the identity behind a session. A missing user yields (nil, nil).
func (s *AuthService) UserByID(ctx context.Context, id string) (*model.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	u, err := s.users.FindByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return u, err
}
