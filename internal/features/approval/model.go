package approval

import (
	"time"

	"go-school/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusCounts holds per-status totals for one slice of the user base.
type StatusCounts struct {
	Pending  int64 `json:"pending" bson:"pending"`
	Approved int64 `json:"approved" bson:"approved"`
	Rejected int64 `json:"rejected" bson:"rejected"`
}

// ApprovalStats is the dashboard aggregate: totals overall and per
// user type. Read-only and eventually consistent with concurrent writes.
type ApprovalStats struct {
	Overall    StatusCounts                     `json:"overall" bson:"overall"`
	ByUserType map[models.UserType]StatusCounts `json:"by_user_type" bson:"by_user_type"`
}

// StatsSnapshot is a point-in-time copy of ApprovalStats persisted by
// the scheduled snapshot job for dashboard history.
type StatsSnapshot struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Stats     ApprovalStats      `json:"stats" bson:"stats"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
