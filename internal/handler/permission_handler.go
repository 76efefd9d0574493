package handler

import (
	"go-staff-permissions/internal/service"
	"go-staff-permissions/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type PermissionHandler struct {
	permissionService service.PermissionService
}

func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

type AssignPermissionsRequest struct {
	Permissions []int `json:"permissions" validate:"required,dive,gt=0"`
}

// GetCatalog returns one page of the permission catalog
// GET /api/v1/permissions?page=1&per_page=20
func (h *PermissionHandler) GetCatalog(c *fiber.Ctx) error {
	page, err := h.permissionService.Catalog(c.QueryInt("page", 1), c.QueryInt("per_page", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// GetAssigned returns the permissions granted to a staff member
// GET /api/v1/staff/:id/permissions
func (h *PermissionHandler) GetAssigned(c *fiber.Ctx) error {
	staffID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	permissions, err := h.permissionService.Assigned(staffID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": permissions})
}

// AssignPermissions replaces every grant of a staff member
// POST /api/v1/staff/:id/permissions
func (h *PermissionHandler) AssignPermissions(c *fiber.Ctx) error {
	staffID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid staff ID"})
	}

	var req AssignPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed: Field '" + errs[0].FailedField + "' failed on tag '" + errs[0].Tag + "'",
		})
	}

	updaterID, ok := c.Locals("staff_id").(string)
	if !ok || updaterID == "" {
		updaterID = "system"
	}

	permissions, err := h.permissionService.Assign(staffID, req.Permissions, updaterID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Permissions updated successfully",
		"items":   permissions,
	})
}

func writeError(c *fiber.Ctx, err error) error {
	var unknown *service.UnknownPermissionError
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &unknown):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process permissions"})
	}
}
