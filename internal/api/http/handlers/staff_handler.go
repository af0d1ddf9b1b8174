package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-policy-service/internal/api/dto"
	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/service"
	"github.com/spec-kit/staff-policy-service/internal/staffcsv"
)

// StaffHandler exposes the roster endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	records, err := h.staffService.List(c.UserContext())
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.StaffRecord{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"records": records,
		"count":   len(records),
	})
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	record, err := h.staffService.Create(c.UserContext(), &req.Staff)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "staff added",
		"record":  record,
	})
}

// Update handles PUT /api/staff/:empId.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	record, err := h.staffService.Update(c.UserContext(), c.Params("empId"), &req.Staff)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "staff updated",
		"record":  record,
	})
}

// Delete handles DELETE /api/staff/:empId.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	record, err := h.staffService.Delete(c.UserContext(), c.Params("empId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "staff deleted",
		"record":  record,
	})
}

// Import handles POST /api/staff/import. A text/csv body is parsed as a
// roster sheet; anything else is decoded as a JSON record list.
func (h *StaffHandler) Import(c *fiber.Ctx) error {
	var records []domain.StaffRecord
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), "text/csv") {
		parsed, err := staffcsv.Parse(bytes.NewReader(c.Body()))
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		records = parsed
	} else {
		var req dto.ImportRosterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
		records = req.Staff
	}

	count, err := h.staffService.ImportRoster(c.UserContext(), records)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "roster imported",
		"count":   count,
	})
}

// Export handles GET /api/staff/export, streaming the roster as CSV.
func (h *StaffHandler) Export(c *fiber.Ctx) error {
	records, err := h.staffService.List(c.UserContext())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := staffcsv.Write(&buf, records); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="staff_roster.csv"`)
	return c.Send(buf.Bytes())
}
