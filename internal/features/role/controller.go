package role

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"go-school/internal/common/apperr"
)

type RoleController struct {
	RoleService RoleService
}

func NewRoleController(roleService RoleService) *RoleController {
	return &RoleController{
		RoleService: roleService,
	}
}

// ListRoles godoc
// @Summary      List roles
// @Description  Get all seeded roles with their permission sets
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} map[string]interface{}
// @Failure      403  {object} map[string]interface{}
// @Router       /api/roles [get]
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.RoleService.ListRoles(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"roles":   roles,
	})
}

// GetRole godoc
// @Summary      Get role by ID
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Role ID"
// @Success      200  {object} map[string]interface{}
// @Failure      404  {object} map[string]interface{}
// @Router       /api/roles/{id} [get]
func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	role, err := ctrl.RoleService.GetRoleByID(c.Context(), c.Params("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("Role not found")
		}
		return apperr.Wrap(err, "failed to load role")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"role":    role,
	})
}
