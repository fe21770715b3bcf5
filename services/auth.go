package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ppsg-cms/internal/auth"
	"ppsg-cms/internal/logger"
	"ppsg-cms/internal/repository"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

const invalidCredentials = "Invalid username or password"

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpsertPassword(ctx context.Context, username, hash string) error
}

type AuthService struct {
	users      UserStore
	tokens     *auth.Tokens
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *auth.Tokens, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Login checks the credentials and issues a session token. Unknown users
// and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", utils.ErrUnauthorized, invalidCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.Warn("Failed admin login", slog.String("username", username))
		return nil, fmt.Errorf("%w: %s", utils.ErrUnauthorized, invalidCredentials)
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.ID.Hex(), user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, Username: user.Username}, nil
}

// Logout ends the session carried by claims.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	return s.tokens.Revoke(ctx, claims.ID)
}

// Authenticate validates a session token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnauthorized, err)
	}
	return claims, nil
}

// SetPassword creates the admin account or resets its password.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return utils.Validationf("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return utils.Validationf("password must be at least 8 characters")
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpsertPassword(ctx, username, hash)
}
