package role

import (
	"context"
	"testing"
	"time"

	"go-school/internal/common/models"
	"go-school/internal/features/user"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedRole(t *testing.T, repo RoleRepository, r Role) Role {
	t.Helper()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	require.NoError(t, repo.Create(context.Background(), &r))
	return r
}

func seedRoleUser(t *testing.T, repo *user.InMemoryUserRepository, username string, roleID primitive.ObjectID) *models.User {
	t.Helper()
	now := time.Now()
	u := &models.User{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Email:          username + "@school.local",
		PasswordHash:   "x",
		RoleID:         roleID,
		UserType:       models.UserTypeTeacher,
		ApprovalStatus: models.ApprovalStatusApproved,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestResolvePermissions(t *testing.T) {
	ctx := context.Background()
	roleRepo := NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository()
	svc := NewRoleService(roleRepo, userRepo)

	super := seedRole(t, roleRepo, Role{Name: RoleAdmin, IsSuperRole: true, IsActive: true})
	teacher := seedRole(t, roleRepo, Role{
		Name:        RoleTeacher,
		Permissions: []string{"view_students", "manage_grades"},
		IsActive:    true,
	})
	dormant := seedRole(t, roleRepo, Role{
		Name:        "dormant",
		Permissions: []string{"view_students"},
		IsActive:    false,
	})

	set, err := svc.ResolvePermissions(ctx, super.ID.Hex())
	require.NoError(t, err)
	require.True(t, set.All)
	require.True(t, set.Has("manage_settings"))
	require.True(t, set.Has("anything_at_all"))

	set, err = svc.ResolvePermissions(ctx, teacher.ID.Hex())
	require.NoError(t, err)
	require.False(t, set.All)
	require.True(t, set.Has("view_students"))
	require.True(t, set.Has("manage_grades"))
	require.False(t, set.Has("manage_fees"))

	// Inactive roles grant nothing, whatever their permission list says.
	set, err = svc.ResolvePermissions(ctx, dormant.ID.Hex())
	require.NoError(t, err)
	require.False(t, set.Has("view_students"))
}

func TestHasPermission(t *testing.T) {
	ctx := context.Background()
	roleRepo := NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository()
	svc := NewRoleService(roleRepo, userRepo)

	teacher := seedRole(t, roleRepo, Role{
		Name:        RoleTeacher,
		Permissions: []string{"view_students", "manage_grades"},
		IsActive:    true,
	})
	super := seedRole(t, roleRepo, Role{Name: RoleAdmin, IsSuperRole: true, IsActive: true})

	teacherUser := seedRoleUser(t, userRepo, "tch", teacher.ID)
	adminUser := seedRoleUser(t, userRepo, "adm", super.ID)

	allowed, err := svc.HasPermission(ctx, teacherUser.ID.Hex(), "view_students")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = svc.HasPermission(ctx, teacherUser.ID.Hex(), "manage_fees")
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = svc.HasPermission(ctx, adminUser.ID.Hex(), "manage_fees")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestHasPermissionPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	roleRepo := NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository()
	svc := NewRoleService(roleRepo, userRepo)

	// Unknown user: the lookup error must surface, never a silent deny.
	_, err := svc.HasPermission(ctx, primitive.NewObjectID().Hex(), "view_students")
	require.Error(t, err)

	// User whose role no longer exists.
	orphan := seedRoleUser(t, userRepo, "orphan", primitive.NewObjectID())
	_, err = svc.HasPermission(ctx, orphan.ID.Hex(), "view_students")
	require.Error(t, err)
}
