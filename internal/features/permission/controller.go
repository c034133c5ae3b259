package permission

import (
	"github.com/gofiber/fiber/v2"
)

type PermissionController struct {
	PermissionService PermissionService
}

func NewPermissionController(permissionService PermissionService) *PermissionController {
	return &PermissionController{
		PermissionService: permissionService,
	}
}

// ListPermissions godoc
// @Summary      List permission catalog
// @Description  Get the seeded permission catalog grouped by category
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} map[string]interface{}
// @Failure      403  {object} map[string]interface{}
// @Router       /api/permissions [get]
func (ctrl *PermissionController) ListPermissions(c *fiber.Ctx) error {
	permissions, err := ctrl.PermissionService.ListPermissions(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"permissions": permissions,
	})
}
