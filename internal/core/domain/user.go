package domain

// Role models the two dashboard personas. It is a closed set: anything the
// upstream sends that is not a manager degrades to the least-privileged view.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// ParseRole normalizes a role string from the upstream or from token claims.
// Unknown values fall back to employee; the upstream service remains the real
// authorization boundary either way.
func ParseRole(s string) Role {
	if Role(s) == RoleManager {
		return RoleManager
	}
	return RoleEmployee
}

// User is the authenticated actor as reported by the upstream API.
// It is never locally mutable.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
