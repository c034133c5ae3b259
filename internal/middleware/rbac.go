package middleware

import (
	"context"

	"go-school/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// Authorizer resolves whether a user's role grants a permission.
// Satisfied by role.RoleService.
type Authorizer interface {
	HasPermission(ctx context.Context, userID string, permission string) (bool, error)
}

// RequirePermission gates a route on a named permission. Runs after
// AuthMiddleware. Any failure while resolving the role or permission
// set is a deny, never an implicit allow.
func RequirePermission(authorizer Authorizer, skipAuth bool, requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		allowed, err := authorizer.HasPermission(c.Context(), claims.UserID, requiredPermission)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Internal server error",
			})
		}

		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden: missing permission " + requiredPermission,
			})
		}

		return c.Next()
	}
}
