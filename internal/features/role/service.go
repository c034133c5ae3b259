package role

import (
	"context"

	"go-school/internal/common/apperr"
	common_models "go-school/internal/common/models"
)

// UserFinder is the slice of the user repository the role service needs
// to resolve a caller's role. Satisfied by user.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*common_models.User, error)
}

type RoleService interface {
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	ResolvePermissions(ctx context.Context, roleID string) (PermissionSet, error)
	HasPermission(ctx context.Context, userID string, permission string) (bool, error)
}

type RoleServiceImpl struct {
	RoleRepo RoleRepository
	Users    UserFinder
}

func NewRoleService(roleRepo RoleRepository, users UserFinder) RoleService {
	return &RoleServiceImpl{
		RoleRepo: roleRepo,
		Users:    users,
	}
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	return s.RoleRepo.FindByID(ctx, id)
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := s.RoleRepo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list roles")
	}
	return roles, nil
}

// ResolvePermissions returns the permission names attached to a role.
// Super roles resolve to the "all permissions" sentinel; an inactive
// role resolves to the empty set.
func (s *RoleServiceImpl) ResolvePermissions(ctx context.Context, roleID string) (PermissionSet, error) {
	role, err := s.RoleRepo.FindByID(ctx, roleID)
	if err != nil {
		return PermissionSet{}, err
	}

	if role.IsSuperRole {
		return PermissionSet{All: true}, nil
	}

	names := make(map[string]struct{}, len(role.Permissions))
	if role.IsActive {
		for _, p := range role.Permissions {
			names[p] = struct{}{}
		}
	}
	return PermissionSet{Names: names}, nil
}

// HasPermission resolves the user's role and tests permission membership.
// Errors propagate so the request-time gate can fail closed.
func (s *RoleServiceImpl) HasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	set, err := s.ResolvePermissions(ctx, user.RoleID.Hex())
	if err != nil {
		return false, err
	}

	return set.Has(permission), nil
}
