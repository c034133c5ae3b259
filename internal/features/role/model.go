package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Known role names seeded at bootstrap.
const (
	RoleAdmin     = "admin"
	RolePrincipal = "principal"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
	RoleParent    = "parent"
	RoleStaff     = "staff"
)

// Role bundles permission names under a name and precedence level.
// A super role bypasses permission checks entirely regardless of its
// explicit permission set; Level is reserved for hierarchy checks and
// not consulted by the current authorization path.
type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	Level       int                `json:"level" bson:"level"`
	IsSuperRole bool               `json:"is_super_role" bson:"is_super_role"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// PermissionSet is the resolved permission view of a role. All marks the
// super-role "everything" sentinel.
type PermissionSet struct {
	All   bool
	Names map[string]struct{}
}

// Has reports whether the set grants the named permission.
func (ps PermissionSet) Has(name string) bool {
	if ps.All {
		return true
	}
	_, ok := ps.Names[name]
	return ok
}
