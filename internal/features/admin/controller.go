package admin

import (
	"strconv"

	"go-school/internal/common/apperr"
	"go-school/internal/common/models"
	"go-school/internal/features/approval"
	"go-school/internal/features/user"
	"go-school/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	UserService     user.UserService
	ApprovalService approval.ApprovalService
	SnapshotRepo    approval.SnapshotRepository
	validator       *validator.Validate
}

func NewAdminController(userService user.UserService, approvalService approval.ApprovalService, snapshotRepo approval.SnapshotRepository) *AdminController {
	return &AdminController{
		UserService:     userService,
		ApprovalService: approvalService,
		SnapshotRepo:    snapshotRepo,
		validator:       validator.New(),
	}
}

type ApproveUserRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectUserRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type BulkApproveRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1"`
	Notes   string   `json:"notes,omitempty"`
}

func actingAdminID(c *fiber.Ctx) (string, error) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return "", apperr.InvalidCredentials("Unauthorized")
	}
	return claims.UserID, nil
}

func listFilter(c *fiber.Ctx) map[string]interface{} {
	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["approval_status"] = status
	}
	if userType := c.Query("userType"); models.ValidUserType(models.UserType(userType)) {
		filter["user_type"] = userType
	}
	return filter
}

// PendingUsers godoc
// @Summary      List pending registrations
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object} map[string]interface{}
// @Router       /api/admin/pending-users [get]
func (ctrl *AdminController) PendingUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	filter := map[string]interface{}{"approval_status": models.ApprovalStatusPending}
	users, total, err := ctrl.UserService.ListUsers(c.Context(), filter, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// ListUsers godoc
// @Summary      List users
// @Description  Paginated user listing filtered by approval status and user type
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by approval status"
// @Param        userType query string false "Filter by user type"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object} map[string]interface{}
// @Router       /api/admin/users [get]
func (ctrl *AdminController) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	users, total, err := ctrl.UserService.ListUsers(c.Context(), listFilter(c), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetUser godoc
// @Summary      Get one user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object} map[string]interface{}
// @Failure      404  {object} map[string]interface{}
// @Router       /api/admin/users/{id} [get]
func (ctrl *AdminController) GetUser(c *fiber.Ctx) error {
	found, err := ctrl.UserService.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    found,
	})
}

// ApproveUser godoc
// @Summary      Approve a pending registration
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        input body ApproveUserRequest false "Optional notes"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]interface{}
// @Failure      404  {object} map[string]interface{}
// @Router       /api/admin/approve-user/{id} [put]
func (ctrl *AdminController) ApproveUser(c *fiber.Ctx) error {
	adminID, err := actingAdminID(c)
	if err != nil {
		return err
	}

	var req ApproveUserRequest
	_ = c.BodyParser(&req) // body is optional

	approved, err := ctrl.ApprovalService.Approve(c.Context(), c.Params("id"), adminID, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User approved",
		"user":    approved,
	})
}

// RejectUser godoc
// @Summary      Reject a pending registration
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        input body RejectUserRequest true "Rejection reason"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]interface{}
// @Failure      404  {object} map[string]interface{}
// @Router       /api/admin/reject-user/{id} [put]
func (ctrl *AdminController) RejectUser(c *fiber.Ctx) error {
	adminID, err := actingAdminID(c)
	if err != nil {
		return err
	}

	var req RejectUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := ctrl.validator.Struct(req); err != nil {
		return apperr.Validation("Rejection reason is required")
	}

	rejected, err := ctrl.ApprovalService.Reject(c.Context(), c.Params("id"), adminID, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User rejected",
		"user":    rejected,
	})
}

// BulkApprove godoc
// @Summary      Approve multiple pending registrations
// @Description  Best-effort: users no longer pending are skipped, the returned count reflects actual approvals
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BulkApproveRequest true "User IDs"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]interface{}
// @Router       /api/admin/bulk-approve [put]
func (ctrl *AdminController) BulkApprove(c *fiber.Ctx) error {
	adminID, err := actingAdminID(c)
	if err != nil {
		return err
	}

	var req BulkApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := ctrl.validator.Struct(req); err != nil {
		return apperr.Validation("userIds must not be empty")
	}

	count, err := ctrl.ApprovalService.BulkApprove(c.Context(), req.UserIDs, adminID, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Bulk approval applied",
		"approved": count,
	})
}

// ApprovalStats godoc
// @Summary      Approval statistics
// @Description  Aggregate pending/approved/rejected counts overall and per user type
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} map[string]interface{}
// @Router       /api/admin/approval-stats [get]
func (ctrl *AdminController) ApprovalStats(c *fiber.Ctx) error {
	stats, err := ctrl.ApprovalService.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// ApprovalStatsHistory godoc
// @Summary      Approval statistics history
// @Description  Recent daily snapshots taken by the scheduler
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Snapshots to return" default(30)
// @Success      200  {object} map[string]interface{}
// @Router       /api/admin/approval-stats/history [get]
func (ctrl *AdminController) ApprovalStatsHistory(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "30"), 10, 64)

	snapshots, err := ctrl.SnapshotRepo.Latest(c.Context(), limit)
	if err != nil {
		return apperr.Wrap(err, "failed to load snapshots")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"snapshots": snapshots,
	})
}

// ExportUsers godoc
// @Summary      Export users to Excel
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        status query string false "Filter by approval status"
// @Param        userType query string false "Filter by user type"
// @Success      200  {file} file
// @Router       /api/admin/users/export [get]
func (ctrl *AdminController) ExportUsers(c *fiber.Ctx) error {
	workbook, err := ctrl.UserService.ExportUsers(c.Context(), listFilter(c))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.xlsx"`)
	return workbook.Write(c.Response().BodyWriter())
}
