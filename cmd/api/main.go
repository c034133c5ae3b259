package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-school/internal/common/api"
	"go-school/internal/common/apperr"
	"go-school/internal/config"
	"go-school/internal/database"
	"go-school/internal/features/admin"
	"go-school/internal/features/approval"
	"go-school/internal/features/audit"
	"go-school/internal/features/auth"
	"go-school/internal/features/permission"
	"go-school/internal/features/role"
	"go-school/internal/features/system"
	"go-school/internal/features/user"
	"go-school/internal/logger"
	"go-school/internal/middleware"
	"go-school/internal/seed"
	"go-school/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          apperr.ErrorHandler,
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// ConfigureTokens injects the signing secret and TTL before any request
// is served.
func ConfigureTokens(cfg *config.Config) {
	utils.Configure(cfg.JWTSecret, cfg.TokenTTL)
}

// RunBootstrap applies the seed catalog, roles and default admin at
// startup. Idempotent, so every boot re-applies it.
func RunBootstrap(
	lc fx.Lifecycle,
	permRepo permission.PermissionRepository,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	auditService audit.AuditService,
	cfg *config.Config,
	zlog *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return seed.Bootstrap(ctx, permRepo, roleRepo, userRepo, auditService, cfg, zlog)
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			user.NewUserRepository,
			role.NewRoleRepository,
			permission.NewPermissionRepository,
			audit.NewAuditRepository,
			approval.NewSnapshotRepository,

			// Initialize Services
			audit.NewAuditService,
			user.NewUserService,
			role.NewRoleService,
			permission.NewPermissionService,
			approval.NewApprovalService,
			approval.NewSnapshotScheduler,
			auth.NewAuthService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) role.UserFinder { return r },
			func(s role.RoleService) middleware.Authorizer { return s },

			// Initialize Controller
			auth.NewAuthController,
			admin.NewAdminController,
			role.NewRoleController,
			permission.NewPermissionController,
			audit.NewAuditController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(admin.NewAdminApi),
			AsRoute(role.NewRoleApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureTokens,
			RunBootstrap,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, scheduler *approval.SnapshotScheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return scheduler.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
