package permission

import (
	"context"
	"sync"
)

// InMemoryPermissionRepository is a slice-backed PermissionRepository
// for tests and local development.
type InMemoryPermissionRepository struct {
	mu          sync.Mutex
	permissions []Permission
}

func NewInMemoryPermissionRepository() *InMemoryPermissionRepository {
	return &InMemoryPermissionRepository{}
}

func (r *InMemoryPermissionRepository) InsertMany(ctx context.Context, permissions []Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permissions = append(r.permissions, permissions...)
	return nil
}

func (r *InMemoryPermissionRepository) List(ctx context.Context) ([]Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Permission, len(r.permissions))
	copy(out, r.permissions)
	return out, nil
}

func (r *InMemoryPermissionRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permissions = nil
	return nil
}

func (r *InMemoryPermissionRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
