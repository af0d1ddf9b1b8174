package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-policy-service/internal/api/dto"
	"github.com/spec-kit/staff-policy-service/internal/service"
)

// AdminHandler covers the maintenance endpoints: backup, restore and the
// password-guarded wipe.
type AdminHandler struct {
	policyService *service.PolicyService
}

func NewAdminHandler(policyService *service.PolicyService) *AdminHandler {
	return &AdminHandler{policyService: policyService}
}

// Backup handles GET /api/backup.
func (h *AdminHandler) Backup(c *fiber.Ctx) error {
	backup, err := h.policyService.Backup(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"backup":  backup,
	})
}

// Restore handles POST /api/restore.
func (h *AdminHandler) Restore(c *fiber.Ctx) error {
	var req dto.RestoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	count, err := h.policyService.Restore(c.UserContext(), req.Data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "backup restored",
		"count":   count,
	})
}

// DeleteAll handles POST /api/delete-all.
func (h *AdminHandler) DeleteAll(c *fiber.Ctx) error {
	var req dto.DeleteAllRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	count, err := h.policyService.DeleteAll(c.UserContext(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "all records deleted",
		"count":   count,
	})
}
