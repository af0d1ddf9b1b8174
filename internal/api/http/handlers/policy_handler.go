package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-policy-service/internal/api/dto"
	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/service"
)

// PolicyHandler exposes the policy CRUD surface.
type PolicyHandler struct {
	policyService *service.PolicyService
}

// NewPolicyHandler constructs the handler.
func NewPolicyHandler(policyService *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

// List handles GET /api/lic-records.
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	records, err := h.policyService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"records": emptyIfNil(records),
		"count":   len(records),
	})
}

// ListByStaff handles GET /api/lic-records/staff/:staffId.
func (h *PolicyHandler) ListByStaff(c *fiber.Ctx) error {
	records, err := h.policyService.ListByStaff(c.UserContext(), c.Params("staffId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"records": emptyIfNil(records),
		"count":   len(records),
	})
}

// BulkCreate handles POST /api/lic-records.
func (h *PolicyHandler) BulkCreate(c *fiber.Ctx) error {
	var req dto.BulkCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	records := make([]domain.PolicyRecord, 0, len(req.Policies))
	for _, p := range req.Policies {
		records = append(records, p.ToRecord())
	}

	inserted, err := h.policyService.BulkCreate(c.UserContext(), records)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "policies added",
		"records": inserted,
		"count":   len(inserted),
	})
}

// Update handles PUT /api/lic-records/:id.
func (h *PolicyHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	record, err := h.policyService.Update(c.UserContext(), id, domain.PolicyUpdate{
		PolicyNo:      req.PolicyNo,
		PremiumAmount: req.PremiumAmount,
		MaturityDate:  req.MaturityDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "policy updated",
		"record":  record,
	})
}

// Delete handles DELETE /api/lic-records/:id.
func (h *PolicyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	record, err := h.policyService.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "policy deleted",
		"record":  record,
	})
}

// UpdateStaffID handles PUT /api/lic-records/emp-id.
func (h *PolicyHandler) UpdateStaffID(c *fiber.Ctx) error {
	var req dto.UpdateStaffIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	count, err := h.policyService.UpdateStaffID(c.UserContext(), req.OldEmpID, req.NewEmpID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "employee id propagated",
		"count":   count,
	})
}

// Stats handles GET /api/stats.
func (h *PolicyHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.policyService.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid record id")
	}
	return id, nil
}

func emptyIfNil(records []domain.PolicyRecord) []domain.PolicyRecord {
	if records == nil {
		return []domain.PolicyRecord{}
	}
	return records
}
