package constants

import "fmt"

// Role slugs seeded on first boot.
const (
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
	RoleParent     = "parent"
	RoleAccountant = "accountant"
	RoleLibrarian  = "librarian"
	RoleStaff      = "staff"
)

const ErrMissingPermission = "You do not have permission to %s."

func PermissionError(slug string) string {
	return fmt.Sprintf(ErrMissingPermission, slug)
}
