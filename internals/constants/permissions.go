package constants

// Permission slugs checked by RequirePermission.
const (
	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"
	PermRolesManage = "roles.manage"

	PermStaffView   = "staff.view"
	PermStaffManage = "staff.manage"
	PermWelfare     = "welfare.manage"

	PermTeachersManage = "teachers.manage"
	PermStudentsView   = "students.view"
	PermStudentsManage = "students.manage"
	PermClassesManage  = "classes.manage"

	PermLibraryView   = "library.view"
	PermLibraryManage = "library.manage"

	PermFeesView     = "fees.view"
	PermFeesManage   = "fees.manage"
	PermSalaryManage = "salaries.manage"

	PermAttendanceView   = "attendance.view"
	PermAttendanceManage = "attendance.manage"
	PermHolidaysManage   = "holidays.manage"
	PermDeviceManage     = "device.manage"

	PermExamsManage      = "exams.manage"
	PermResultsManage    = "results.manage"
	PermPromotionsManage = "promotions.manage"

	PermSettingsManage = "settings.manage"
	PermActivityView   = "activity_logs.view"
	PermActivityClear  = "activity_logs.clear"
)

type PermissionSeed struct {
	Slug  string
	Name  string
	Group string
}

// DefaultPermissions is seeded once; admins edit freely afterwards.
var DefaultPermissions = []PermissionSeed{
	{PermUsersView, "View users", "users"},
	{PermUsersManage, "Manage users", "users"},
	{PermRolesManage, "Manage roles and permissions", "users"},
	{PermStaffView, "View staff", "staff"},
	{PermStaffManage, "Manage staff", "staff"},
	{PermWelfare, "Manage staff welfare", "staff"},
	{PermTeachersManage, "Manage teachers", "school"},
	{PermStudentsView, "View students", "school"},
	{PermStudentsManage, "Manage students", "school"},
	{PermClassesManage, "Manage classes", "school"},
	{PermLibraryView, "View library", "library"},
	{PermLibraryManage, "Manage library", "library"},
	{PermFeesView, "View fee collections", "finance"},
	{PermFeesManage, "Manage fee collections", "finance"},
	{PermSalaryManage, "Manage salaries", "finance"},
	{PermAttendanceView, "View attendance", "attendance"},
	{PermAttendanceManage, "Manage attendance", "attendance"},
	{PermHolidaysManage, "Manage holidays", "attendance"},
	{PermDeviceManage, "Manage attendance device", "attendance"},
	{PermExamsManage, "Manage exams", "academics"},
	{PermResultsManage, "Manage results", "academics"},
	{PermPromotionsManage, "Manage promotions", "academics"},
	{PermSettingsManage, "Manage settings", "settings"},
	{PermActivityView, "View activity logs", "activity_logs"},
	{PermActivityClear, "Clear activity logs", "activity_logs"},
}

// DefaultRolePermissions grants non-admin roles their starting set.
// Admin bypasses permission checks and needs no rows here.
var DefaultRolePermissions = map[string][]string{
	RoleTeacher: {
		PermStudentsView, PermAttendanceView, PermAttendanceManage,
		PermExamsManage, PermResultsManage, PermLibraryView,
	},
	RoleAccountant: {
		PermFeesView, PermFeesManage, PermSalaryManage, PermStaffView, PermWelfare,
	},
	RoleLibrarian: {
		PermLibraryView, PermLibraryManage, PermStudentsView,
	},
	RoleStaff: {
		PermAttendanceView,
	},
}
