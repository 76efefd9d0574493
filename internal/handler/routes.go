package handler

import (
	"go-staff-permissions/internal/middleware"
	"go-staff-permissions/internal/model"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the permission API on api, usually the /api/v1 group.
func RegisterRoutes(api fiber.Router, h *PermissionHandler, secret []byte) {
	protected := api.Group("", middleware.RequireAuth(secret))

	canView := middleware.RequireAnyPermission(model.PermissionStaffView, model.PermissionStaffEdit)
	protected.Get("/permissions", canView, h.GetCatalog)
	protected.Get("/staff/:id/permissions", canView, h.GetAssigned)
	protected.Post("/staff/:id/permissions", middleware.RequirePermission(model.PermissionStaffEdit), h.AssignPermissions)
}
