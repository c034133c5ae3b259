package permission

import (
	"go-school/internal/config"
	"go-school/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	controller *PermissionController
	authorizer middleware.Authorizer
	config     *config.Config
}

func NewPermissionApi(controller *PermissionController, authorizer middleware.Authorizer, config *config.Config) *PermissionApi {
	return &PermissionApi{
		controller: controller,
		authorizer: authorizer,
		config:     config,
	}
}

// Setup registers the permission catalog routes
func (h *PermissionApi) Setup(app *fiber.App) {
	group := app.Group("/api/permissions",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequirePermission(h.authorizer, h.config.SkipAuth, "manage_roles"),
	)
	group.Get("/", h.controller.ListPermissions)
}
