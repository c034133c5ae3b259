package role

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// InMemoryRoleRepository is a map-backed RoleRepository for tests and
// local development.
type InMemoryRoleRepository struct {
	mu    sync.Mutex
	roles map[string]Role // keyed by hex id
}

func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles: make(map[string]Role),
	}
}

func (r *InMemoryRoleRepository) Create(ctx context.Context, role *Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.ID.Hex()] = *role
	return nil
}

func (r *InMemoryRoleRepository) UpsertByName(ctx context.Context, role *Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.roles {
		if existing.Name == role.Name {
			role.ID = existing.ID
			role.CreatedAt = existing.CreatedAt
			r.roles[id] = *role
			return nil
		}
	}
	r.roles[role.ID.Hex()] = *role
	return nil
}

func (r *InMemoryRoleRepository) FindByID(ctx context.Context, id string) (*Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &role, nil
}

func (r *InMemoryRoleRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			role := role
			return &role, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *InMemoryRoleRepository) List(ctx context.Context) ([]Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].Level > roles[j].Level
	})
	return roles, nil
}

func (r *InMemoryRoleRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles = make(map[string]Role)
	return nil
}

func (r *InMemoryRoleRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
