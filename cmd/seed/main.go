package main

import (
	"context"
	"time"

	"go-school/internal/config"
	"go-school/internal/database"
	"go-school/internal/features/audit"
	"go-school/internal/features/permission"
	"go-school/internal/features/role"
	"go-school/internal/features/user"
	"go-school/internal/logger"
	"go-school/internal/seed"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed runs the idempotent bootstrap and exits.
func Seed(
	lc fx.Lifecycle,
	permRepo permission.PermissionRepository,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	auditService audit.AuditService,
	cfg *config.Config,
	zlog *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						zlog.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := seed.Bootstrap(ctx, permRepo, roleRepo, userRepo, auditService, cfg, zlog); err != nil {
					zlog.Error("Bootstrap failed", zap.Error(err))
					return
				}
				zlog.Info("Bootstrap completed")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			role.NewRoleRepository,
			permission.NewPermissionRepository,
			audit.NewAuditRepository,
			audit.NewAuditService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
