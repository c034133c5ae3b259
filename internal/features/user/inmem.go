package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-school/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InMemoryUserRepository is a map-backed UserRepository used by tests
// and local development. It mirrors the Mongo repository's semantics,
// including the mongo.ErrNoDocuments sentinel and the compare-and-set
// approval transitions.
type InMemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by hex id
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]models.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	r.users[user.ID.Hex()] = *user
	return nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (r *InMemoryUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			u := u
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *InMemoryUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == login || u.Email == strings.ToLower(login) {
			u := u
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *InMemoryUserRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.User
	for _, u := range r.users {
		if status, ok := filter["approval_status"]; ok && string(u.ApprovalStatus) != toString(status) {
			continue
		}
		if userType, ok := filter["user_type"]; ok && string(u.UserType) != toString(userType) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= total {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case models.ApprovalStatus:
		return string(s)
	case models.UserType:
		return string(s)
	}
	return ""
}

func (r *InMemoryUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.LastLogin = &at
	u.UpdatedAt = at
	r.users[id] = u
	return nil
}

// SetActive toggles the active flag directly. Not part of
// UserRepository; exists for tests exercising deactivated accounts.
func (r *InMemoryUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *InMemoryUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *InMemoryUserRepository) ApproveIfPending(ctx context.Context, id, adminID, notes string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.approveLocked(id, adminID, notes, at), nil
}

func (r *InMemoryUserRepository) approveLocked(id, adminID, notes string, at time.Time) bool {
	u, ok := r.users[id]
	if !ok || u.ApprovalStatus != models.ApprovalStatusPending {
		return false
	}
	adminOID, err := oidFromHex(adminID)
	if err != nil {
		return false
	}
	u.ApprovalStatus = models.ApprovalStatusApproved
	u.IsActive = true
	u.ApprovedBy = &adminOID
	u.ApprovedAt = &at
	u.ApprovalNotes = notes
	u.UpdatedAt = at
	r.users[id] = u
	return true
}

func (r *InMemoryUserRepository) RejectIfPending(ctx context.Context, id, adminID, reason string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ApprovalStatus != models.ApprovalStatusPending {
		return false, nil
	}
	adminOID, err := oidFromHex(adminID)
	if err != nil {
		return false, err
	}
	u.ApprovalStatus = models.ApprovalStatusRejected
	u.IsActive = false
	u.ApprovedBy = &adminOID
	u.ApprovedAt = &at
	u.RejectionReason = reason
	u.UpdatedAt = at
	r.users[id] = u
	return true, nil
}

func (r *InMemoryUserRepository) BulkApproveIfPending(ctx context.Context, ids []string, adminID, notes string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, id := range ids {
		if r.approveLocked(id, adminID, notes, at) {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryUserRepository) CountByStatusAndType(ctx context.Context) ([]StatusTypeCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buckets := make(map[[2]string]int64)
	for _, u := range r.users {
		buckets[[2]string{string(u.UserType), string(u.ApprovalStatus)}]++
	}

	counts := make([]StatusTypeCount, 0, len(buckets))
	for key, n := range buckets {
		counts = append(counts, StatusTypeCount{
			UserType: models.UserType(key[0]),
			Status:   models.ApprovalStatus(key[1]),
			Count:    n,
		})
	}
	return counts, nil
}

func (r *InMemoryUserRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func oidFromHex(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
