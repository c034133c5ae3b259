package seed

import (
	"context"
	"testing"

	"go-school/internal/common/models"
	"go-school/internal/config"
	"go-school/internal/features/permission"
	"go-school/internal/features/role"
	"go-school/internal/features/user"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type recordingAudit struct {
	entries []models.AuditLog
}

func (r *recordingAudit) LogChange(ctx context.Context, action models.AuditAction, subject, recordID, actorID string, changes map[string]models.Change) error {
	r.entries = append(r.entries, models.AuditLog{
		Action:   action,
		Subject:  subject,
		RecordID: recordID,
		ActorID:  actorID,
		Changes:  changes,
	})
	return nil
}

func (r *recordingAudit) History(ctx context.Context, subject, recordID string) ([]models.AuditLog, error) {
	return r.entries, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AdminUsername: "admin",
		AdminEmail:    "admin@school.local",
		AdminPassword: "admin123",
		BcryptCost:    bcrypt.MinCost,
	}
}

func TestBootstrapSeedsCatalogRolesAndAdmin(t *testing.T) {
	ctx := context.Background()
	permRepo := permission.NewInMemoryPermissionRepository()
	roleRepo := role.NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository()
	auditRec := &recordingAudit{}

	require.NoError(t, Bootstrap(ctx, permRepo, roleRepo, userRepo, auditRec, testConfig(), zap.NewNop()))

	perms, err := permRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, perms, len(DefaultPermissions))

	roles, err := roleRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, len(DefaultRoles))

	adminRole, err := roleRepo.FindByName(ctx, role.RoleAdmin)
	require.NoError(t, err)
	require.True(t, adminRole.IsSuperRole)

	admin, err := userRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, admin.ApprovalStatus)
	require.True(t, admin.IsActive)
	require.Equal(t, adminRole.ID, admin.RoleID)
	require.NotNil(t, admin.ApprovedBy)
	require.Equal(t, admin.ID, *admin.ApprovedBy)

	// Creating the admin is an audit-relevant write.
	require.Len(t, auditRec.entries, 1)
	require.Equal(t, models.AuditActionSeed, auditRec.entries[0].Action)
	require.Equal(t, admin.ID.Hex(), auditRec.entries[0].RecordID)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	permRepo := permission.NewInMemoryPermissionRepository()
	roleRepo := role.NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository()
	auditRec := &recordingAudit{}
	cfg := testConfig()

	require.NoError(t, Bootstrap(ctx, permRepo, roleRepo, userRepo, auditRec, cfg, zap.NewNop()))

	admin, err := userRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	firstAdminID := admin.ID
	firstRoleID := admin.RoleID

	require.NoError(t, Bootstrap(ctx, permRepo, roleRepo, userRepo, auditRec, cfg, zap.NewNop()))

	// Catalog and roles are replaced, never accumulated.
	perms, err := permRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, perms, len(DefaultPermissions))

	roles, err := roleRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, len(DefaultRoles))

	// The admin account survives untouched, and its role reference is
	// still valid because reseeded roles keep their ids.
	admin, err = userRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, firstAdminID, admin.ID)
	adminRole, err := roleRepo.FindByName(ctx, role.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, firstRoleID, adminRole.ID)
	require.Equal(t, admin.RoleID, adminRole.ID)

	_, total, err := userRepo.List(ctx, map[string]interface{}{"user_type": models.UserTypeAdmin}, 100, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// No second seed audit entry when the admin already exists.
	require.Len(t, auditRec.entries, 1)
}

func TestDefaultCatalogShape(t *testing.T) {
	seen := make(map[string]bool, len(DefaultPermissions))
	for _, p := range DefaultPermissions {
		require.False(t, seen[p.Name], "duplicate permission %q", p.Name)
		seen[p.Name] = true
		require.NotEmpty(t, p.Category, "permission %q has no category", p.Name)
	}

	var supers int
	for _, r := range DefaultRoles {
		if r.IsSuperRole {
			supers++
			continue
		}
		for _, p := range r.Permissions {
			require.True(t, seen[p], "role %q references unknown permission %q", r.Name, p)
		}
	}
	require.Equal(t, 1, supers)
}
