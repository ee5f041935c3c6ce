package auth

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser1 Role = "User1"
	RoleUser2 Role = "User2"
)

var allRoles = []Role{RoleAdmin, RoleUser1, RoleUser2}

// Roles returns every known role.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser1, RoleUser2:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole accepts only the exact role names.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
