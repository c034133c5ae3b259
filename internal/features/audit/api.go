package audit

import (
	"go-school/internal/config"
	"go-school/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	authorizer middleware.Authorizer
	config     *config.Config
}

func NewAuditApi(controller *AuditController, authorizer middleware.Authorizer, config *config.Config) *AuditApi {
	return &AuditApi{
		controller: controller,
		authorizer: authorizer,
		config:     config,
	}
}

// Setup registers audit trail routes
func (h *AuditApi) Setup(app *fiber.App) {
	group := app.Group("/api/admin/audit",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequirePermission(h.authorizer, h.config.SkipAuth, "view_users"),
	)
	group.Get("/users/:id", h.controller.History)
}
