package domain

import "fmt"

// Role classifies a client application for coarse-grained access decisions.
// Admin-role clients bypass scope checks entirely.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system"
)

// Roles lists every valid role, in the order they are documented.
var Roles = []Role{RoleDoctor, RoleNurse, RolePatient, RoleAdmin, RoleSystem}

// ParseRole validates a role string from the wire.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	for _, r := range Roles {
		if role == r {
			return role, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) String() string {
	return string(r)
}
