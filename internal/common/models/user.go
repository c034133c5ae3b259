package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
	UserTypeStaff   UserType = "staff"
	UserTypeAdmin   UserType = "admin"
)

// ValidUserType reports whether t is one of the known user types.
func ValidUserType(t UserType) bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeStaff, UserTypeAdmin:
		return true
	}
	return false
}

// StudentProfile carries the student-specific registration payload.
type StudentProfile struct {
	AdmissionNumber string `bson:"admission_number,omitempty" json:"admission_number,omitempty"`
	ClassName       string `bson:"class_name,omitempty" json:"class_name,omitempty" validate:"required"`
	GuardianName    string `bson:"guardian_name,omitempty" json:"guardian_name,omitempty"`
	GuardianPhone   string `bson:"guardian_phone,omitempty" json:"guardian_phone,omitempty"`
}

// TeacherProfile carries the teacher-specific registration payload.
type TeacherProfile struct {
	EmployeeID    string   `bson:"employee_id,omitempty" json:"employee_id,omitempty" validate:"required"`
	Subjects      []string `bson:"subjects,omitempty" json:"subjects,omitempty"`
	Qualification string   `bson:"qualification,omitempty" json:"qualification,omitempty"`
}

// StaffProfile carries the staff-specific registration payload.
type StaffProfile struct {
	EmployeeID string `bson:"employee_id,omitempty" json:"employee_id,omitempty" validate:"required"`
	Department string `bson:"department,omitempty" json:"department,omitempty"`
	Position   string `bson:"position,omitempty" json:"position,omitempty"`
}

// User is an identity record. A user is created pending and inactive at
// registration and becomes active only through an approval transition.
// Exactly one of the profile sub-documents is set, matching UserType
// (admin users carry none).
type User struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username        string              `bson:"username" json:"username"`
	Email           string              `bson:"email" json:"email"` // stored lowercase
	PasswordHash    string              `bson:"password_hash" json:"-"`
	FirstName       string              `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName        string              `bson:"last_name,omitempty" json:"last_name,omitempty"`
	RoleID          primitive.ObjectID  `bson:"role_id" json:"role_id"`
	UserType        UserType            `bson:"user_type" json:"user_type"`
	ApprovalStatus  ApprovalStatus      `bson:"approval_status" json:"approval_status"`
	IsActive        bool                `bson:"is_active" json:"is_active"`
	ApprovedBy      *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	ApprovalNotes   string              `bson:"approval_notes,omitempty" json:"approval_notes,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	Student         *StudentProfile     `bson:"student,omitempty" json:"student,omitempty"`
	Teacher         *TeacherProfile     `bson:"teacher,omitempty" json:"teacher,omitempty"`
	Staff           *StaffProfile       `bson:"staff,omitempty" json:"staff,omitempty"`
	LastLogin       *time.Time          `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
