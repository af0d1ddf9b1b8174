package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const claimsContextKey = "auth_claims"

// AuthMiddleware guards destructive admin endpoints with a Bearer token.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle validates the Authorization header and stashes the claims.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return fiber.NewError(http.StatusUnauthorized, "authorization required")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "bearer token required")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
	}

	c.Locals(claimsContextKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves validated claims set by Handle.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsContextKey).(*Claims)
	return claims, ok
}
