package permission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryUserMgmt      Category = "user_mgmt"
	CategoryStudentMgmt   Category = "student_mgmt"
	CategoryTeacherMgmt   Category = "teacher_mgmt"
	CategoryAcademicMgmt  Category = "academic_mgmt"
	CategoryFinancialMgmt Category = "financial_mgmt"
	CategorySystemMgmt    Category = "system_mgmt"
)

// Permission is a named, atomic capability that gates one class of action.
// The catalog is reference data seeded at bootstrap; the category is
// descriptive grouping only and is never consulted at check time.
type Permission struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Category    Category           `json:"category" bson:"category"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
