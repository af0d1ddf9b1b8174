package service

import (
	"time"

	"github.com/spec-kit/staff-policy-service/internal/auth"
	"github.com/spec-kit/staff-policy-service/internal/config"
	apperrors "github.com/spec-kit/staff-policy-service/pkg/util"
)

// AuthService authenticates the single admin account and issues tokens.
// The admin password is configured through the environment and hashed once
// at startup; the same credential guards the delete-all operation.
type AuthService struct {
	username  string
	adminHash string
	tokens    *auth.TokenManager
}

// NewAuthService constructs the service. A missing admin password leaves the
// account disabled: every login and password check fails.
func NewAuthService(cfg config.Config) (*AuthService, error) {
	s := &AuthService{
		username: cfg.Auth.AdminUsername,
		tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
	if cfg.Auth.AdminPassword != "" {
		hash, err := auth.HashPassword(cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
		if err != nil {
			return nil, err
		}
		s.adminHash = hash
	}
	return s, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	if !s.verify(username, password) {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokens.GenerateToken(username)
}

// VerifyAdminPassword reports whether the supplied password matches the
// configured admin credential.
func (s *AuthService) VerifyAdminPassword(password string) bool {
	return s.verify(s.username, password)
}

func (s *AuthService) verify(username, password string) bool {
	if s.adminHash == "" || username != s.username {
		return false
	}
	return auth.VerifyPassword(s.adminHash, password)
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
