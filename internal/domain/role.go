package domain

// Role is the coarse authorization tier carried in session claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Dominates reports whether r satisfies a requirement for the given role.
// Admin dominates user; every role dominates itself.
func (r Role) Dominates(required Role) bool {
	if r == required {
		return true
	}
	return r == RoleAdmin && required == RoleUser
}
