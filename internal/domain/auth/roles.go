package auth

import "strings"

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleEmployee     Role = "employee"
)

var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"receptionist":  RoleReceptionist,
	"recepcionista": RoleReceptionist,
	"employee":      RoleEmployee,
	"empleado":      RoleEmployee,
}

// ParseRole normalizes a role name taken from a token or a directory record.
func ParseRole(raw string) (Role, bool) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	return role, ok
}

type UserContext struct {
	UserID     string
	Role       Role
	EmployeeID string
}
