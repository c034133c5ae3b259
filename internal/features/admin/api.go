package admin

import (
	"go-school/internal/config"
	"go-school/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdminApi struct {
	controller *AdminController
	authorizer middleware.Authorizer
	config     *config.Config
}

func NewAdminApi(controller *AdminController, authorizer middleware.Authorizer, config *config.Config) *AdminApi {
	return &AdminApi{
		controller: controller,
		authorizer: authorizer,
		config:     config,
	}
}

// Setup registers all admin routes. Listing is gated on view_users,
// approval transitions on approve_users.
func (h *AdminApi) Setup(app *fiber.App) {
	group := app.Group("/api/admin", middleware.AuthMiddleware(h.config.SkipAuth))

	view := middleware.RequirePermission(h.authorizer, h.config.SkipAuth, "view_users")
	approve := middleware.RequirePermission(h.authorizer, h.config.SkipAuth, "approve_users")

	group.Get("/pending-users", view, h.controller.PendingUsers)
	group.Get("/users", view, h.controller.ListUsers)
	group.Get("/users/export", view, h.controller.ExportUsers)
	group.Get("/users/:id", view, h.controller.GetUser)
	group.Get("/approval-stats", view, h.controller.ApprovalStats)
	group.Get("/approval-stats/history", view, h.controller.ApprovalStatsHistory)

	group.Put("/approve-user/:id", approve, h.controller.ApproveUser)
	group.Put("/reject-user/:id", approve, h.controller.RejectUser)
	group.Put("/bulk-approve", approve, h.controller.BulkApprove)
}
