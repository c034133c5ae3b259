package seed

import (
	"go-school/internal/features/permission"
	"go-school/internal/features/role"
)

// SchemaVersion tags the seed catalog below. Bump it whenever the
// permission or role lists change so deployments can tell which
// vocabulary they run.
const SchemaVersion = 1

// PermissionSpec is one row of the fixed permission catalog.
type PermissionSpec struct {
	Name        string
	Description string
	Category    permission.Category
}

// RoleSpec is one row of the fixed role list. Permissions reference
// catalog entries by name.
type RoleSpec struct {
	Name        string
	Description string
	Permissions []string
	Level       int
	IsSuperRole bool
}

// DefaultPermissions is the full permission vocabulary. Reseeding
// replaces the stored catalog with exactly this list.
var DefaultPermissions = []PermissionSpec{
	{"view_users", "View user accounts", permission.CategoryUserMgmt},
	{"manage_users", "Create, update and deactivate user accounts", permission.CategoryUserMgmt},
	{"approve_users", "Approve or reject pending registrations", permission.CategoryUserMgmt},

	{"view_students", "View student records", permission.CategoryStudentMgmt},
	{"manage_students", "Create and update student records", permission.CategoryStudentMgmt},

	{"view_teachers", "View teacher records", permission.CategoryTeacherMgmt},
	{"manage_teachers", "Create and update teacher records", permission.CategoryTeacherMgmt},

	{"view_classes", "View class records", permission.CategoryAcademicMgmt},
	{"manage_classes", "Create and update class records", permission.CategoryAcademicMgmt},
	{"view_timetable", "View timetables", permission.CategoryAcademicMgmt},
	{"manage_timetable", "Create and update timetables", permission.CategoryAcademicMgmt},
	{"manage_grades", "Record and update grades", permission.CategoryAcademicMgmt},
	{"view_attendance", "View attendance records", permission.CategoryAcademicMgmt},
	{"manage_attendance", "Record attendance", permission.CategoryAcademicMgmt},

	{"view_fees", "View fee ledgers", permission.CategoryFinancialMgmt},
	{"manage_fees", "Create and update fee structures", permission.CategoryFinancialMgmt},
	{"collect_fees", "Record fee payments", permission.CategoryFinancialMgmt},

	{"manage_roles", "View roles and the permission catalog", permission.CategorySystemMgmt},
	{"view_reports", "View administrative reports", permission.CategorySystemMgmt},
	{"manage_settings", "Change system settings", permission.CategorySystemMgmt},
}

// DefaultRoles is the fixed role list. The admin role is the super role
// and bypasses permission checks regardless of its explicit set.
var DefaultRoles = []RoleSpec{
	{
		Name:        role.RoleAdmin,
		Description: "System administrator",
		Permissions: []string{},
		Level:       100,
		IsSuperRole: true,
	},
	{
		Name:        role.RolePrincipal,
		Description: "School principal",
		Permissions: []string{
			"view_users", "manage_users", "approve_users",
			"view_students", "manage_students",
			"view_teachers", "manage_teachers",
			"view_classes", "manage_classes",
			"view_timetable", "manage_timetable",
			"view_attendance",
			"view_fees", "view_reports",
		},
		Level: 80,
	},
	{
		Name:        role.RoleStaff,
		Description: "Administrative staff",
		Permissions: []string{
			"view_students", "view_teachers",
			"view_fees", "manage_fees", "collect_fees",
			"view_reports",
		},
		Level: 60,
	},
	{
		Name:        role.RoleTeacher,
		Description: "Teaching staff",
		Permissions: []string{
			"view_students", "manage_grades",
			"view_classes", "view_timetable",
			"view_attendance", "manage_attendance",
		},
		Level: 40,
	},
	{
		Name:        role.RoleParent,
		Description: "Parent or guardian",
		Permissions: []string{"view_timetable", "view_fees"},
		Level:       20,
	},
	{
		Name:        role.RoleStudent,
		Description: "Enrolled student",
		Permissions: []string{"view_classes", "view_timetable"},
		Level:       10,
	},
}
