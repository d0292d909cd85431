// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier split:
//
//	Handler (HTTP)    → parses requests, writes responses
//	Service (rules)   → validates, enforces ownership, orchestrates
//	Repository (data) → reads/writes the database
//
// Services receive repository interfaces, never concrete store types, so
// tests swap in fakes with plain Go values.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/songvault/internal/apperror"
	"github.com/sakif/songvault/internal/auth"
	"github.com/sakif/songvault/internal/model"
	"github.com/sakif/songvault/internal/repository"
)

// AuthService handles registration, login, and identity lookups.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new user and logs them in right away by returning a
// signed token whose identity resolves to the new user's ID.
//
// The email existence check and the INSERT are two calls; the UNIQUE
// constraint in the store backs the check up, so a race still surfaces as
// the same conflict error.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return "", apperror.Conflict("User already exists")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return "", err
		}
		return "", fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// Login verifies credentials and returns a signed token.
//
// Unknown email and wrong password return the identical generic error —
// response bodies must not reveal whether an email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.ValidationFailed("", "Invalid credentials")
		}
		return "", fmt.Errorf("service/auth: looking up email: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.ValidationFailed("", "Invalid credentials")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// CurrentUser returns the user record for the identity the auth middleware
// attached to the request. The store projection excludes the password hash.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
