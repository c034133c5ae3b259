package audit

import (
	"github.com/gofiber/fiber/v2"

	"go-school/internal/common/apperr"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// History godoc
// @Summary      Audit history for a user record
// @Description  Registration, approval and credential events recorded for one user
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object} map[string]interface{}
// @Router       /api/admin/audit/users/{id} [get]
func (ctrl *AuditController) History(c *fiber.Ctx) error {
	entries, err := ctrl.Service.History(c.Context(), "users", c.Params("id"))
	if err != nil {
		return apperr.Wrap(err, "failed to load audit history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
	})
}
