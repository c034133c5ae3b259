package auth

import (
	"go-school/internal/config"
	"go-school/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	// Public routes
	app.Post("/api/auth/register", h.controller.Register)
	app.Post("/api/auth/login", h.controller.Login)

	// Routes behind the bearer token
	app.Get("/api/auth/me", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Me)
	app.Put("/api/auth/change-password", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.ChangePassword)
}
