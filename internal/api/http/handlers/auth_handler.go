package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-policy-service/internal/api/dto"
	"github.com/spec-kit/staff-policy-service/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	token, expiresAt, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"auth": dto.AuthResponse{
			Token:     token,
			ExpiresAt: expiresAt,
		},
	})
}
