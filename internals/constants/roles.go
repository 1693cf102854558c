package constants

// Role names as carried in JWT claims.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// AdminAndAbove are the roles allowed on the /api/a group.
var AdminAndAbove = []string{RoleOwner, RoleAdmin}
