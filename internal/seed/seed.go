package seed

import (
	"context"
	"time"

	"go-school/internal/common/models"
	"go-school/internal/config"
	"go-school/internal/features/audit"
	"go-school/internal/features/permission"
	"go-school/internal/features/role"
	"go-school/internal/features/user"
	"go-school/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Bootstrap applies the fixed permission catalog and role list, then
// creates the default administrator if none exists. Safe to run on
// every startup: the catalog and roles are replaced in full, the admin
// account is keyed by its fixed username and never recreated, so
// repeated runs cannot duplicate data or lock out access.
func Bootstrap(
	ctx context.Context,
	permRepo permission.PermissionRepository,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) error {
	logger.Info("running bootstrap", zap.Int("schema_version", SchemaVersion))

	if err := permRepo.DeleteAll(ctx); err != nil {
		return err
	}
	now := time.Now()
	permissions := make([]permission.Permission, 0, len(DefaultPermissions))
	for _, spec := range DefaultPermissions {
		permissions = append(permissions, permission.Permission{
			ID:          primitive.NewObjectID(),
			Name:        spec.Name,
			Description: spec.Description,
			Category:    spec.Category,
			IsActive:    true,
			CreatedAt:   now,
		})
	}
	if err := permRepo.InsertMany(ctx, permissions); err != nil {
		return err
	}
	if err := permRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("permission catalog seeded", zap.Int("count", len(permissions)))

	// Roles are upserted by name, not replaced: existing documents keep
	// their _id, so users created before a reseed keep a valid role
	// reference.
	var adminRole *role.Role
	for _, spec := range DefaultRoles {
		r := &role.Role{
			ID:          primitive.NewObjectID(),
			Name:        spec.Name,
			Description: spec.Description,
			Permissions: spec.Permissions,
			Level:       spec.Level,
			IsSuperRole: spec.IsSuperRole,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := roleRepo.UpsertByName(ctx, r); err != nil {
			return err
		}
		if r.IsSuperRole {
			adminRole = r
		}
	}
	if err := roleRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("roles seeded", zap.Int("count", len(DefaultRoles)))

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// Create the default administrator only if absent.
	if _, err := userRepo.FindByUsername(ctx, cfg.AdminUsername); err == nil {
		logger.Info("default admin exists, skipping", zap.String("username", cfg.AdminUsername))
		return nil
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	passwordHash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:             primitive.NewObjectID(),
		Username:       cfg.AdminUsername,
		Email:          cfg.AdminEmail,
		PasswordHash:   passwordHash,
		FirstName:      "System",
		LastName:       "Administrator",
		RoleID:         adminRole.ID,
		UserType:       models.UserTypeAdmin,
		ApprovalStatus: models.ApprovalStatusApproved,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	admin.ApprovedBy = &admin.ID
	admin.ApprovedAt = &now

	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	_ = auditService.LogChange(ctx, models.AuditActionSeed, "users", admin.ID.Hex(), admin.ID.Hex(), map[string]models.Change{
		"username":  {New: admin.Username},
		"user_type": {New: admin.UserType},
	})
	logger.Info("default admin created", zap.String("username", cfg.AdminUsername))

	return nil
}
