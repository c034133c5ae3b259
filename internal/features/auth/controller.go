package auth

import (
	"go-school/internal/common/apperr"
	"go-school/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
	validator   *validator.Validate
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
		validator:   validator.New(),
	}
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		if fe.Tag() == "required" {
			return fe.Field() + " is required"
		}
		return fe.Field() + " failed validation (" + fe.Tag() + ")"
	}
	return "Invalid request body"
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a pending identity that must be approved by an administrator before login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Register Input"
// @Success      201  {object} map[string]interface{}
// @Failure      400  {object} map[string]interface{}
// @Router       /api/auth/register [post]
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := ctrl.validator.Struct(input); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	created, err := ctrl.AuthService.Register(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration received, awaiting approval",
		"user":    created,
	})
}

// Login godoc
// @Summary      Login
// @Description  Authenticate with username or email plus password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} map[string]interface{}
// @Failure      401  {object} map[string]interface{}
// @Router       /api/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := ctrl.validator.Struct(req); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	account, token, err := ctrl.AuthService.Login(c.Context(), req.Login, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    account,
		"token":   token,
	})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the identity behind the bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} map[string]interface{}
// @Failure      401  {object} map[string]interface{}
// @Router       /api/auth/me [get]
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return apperr.InvalidCredentials("Unauthorized")
	}

	account, err := ctrl.AuthService.Me(c.Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    account,
	})
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Re-verifies the current password before storing the new hash
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ChangePasswordRequest true "Change Password Input"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]interface{}
// @Router       /api/auth/change-password [put]
func (ctrl *AuthController) ChangePassword(c *fiber.Ctx) error {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return apperr.InvalidCredentials("Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := ctrl.validator.Struct(req); err != nil {
		return apperr.Validation(validationMessage(err))
	}

	if err := ctrl.AuthService.ChangePassword(c.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated",
	})
}
