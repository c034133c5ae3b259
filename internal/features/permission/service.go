package permission

import (
	"context"

	"go-school/internal/common/apperr"
)

type PermissionService interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
}

type PermissionServiceImpl struct {
	Repo PermissionRepository
}

func NewPermissionService(repo PermissionRepository) PermissionService {
	return &PermissionServiceImpl{Repo: repo}
}

func (s *PermissionServiceImpl) ListPermissions(ctx context.Context) ([]Permission, error) {
	permissions, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list permissions")
	}
	return permissions, nil
}
