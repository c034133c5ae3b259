package role

import (
	"go-school/internal/config"
	"go-school/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	authorizer middleware.Authorizer
	config     *config.Config
}

func NewRoleApi(controller *RoleController, authorizer middleware.Authorizer, config *config.Config) *RoleApi {
	return &RoleApi{
		controller: controller,
		authorizer: authorizer,
		config:     config,
	}
}

// Setup registers role registry routes
func (h *RoleApi) Setup(app *fiber.App) {
	group := app.Group("/api/roles",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequirePermission(h.authorizer, h.config.SkipAuth, "manage_roles"),
	)
	group.Get("/", h.controller.ListRoles)
	group.Get("/:id", h.controller.GetRole)
}
