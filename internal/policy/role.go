package policy

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
	RoleAdmin      Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleStoreOwner, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// CanOwnStore reports whether a user with this role may be set as a
// store's owner.
func (r Role) CanOwnStore() bool {
	return r == RoleStoreOwner || r == RoleAdmin
}

// Principal is the authenticated (user id, role) pair resolved from a
// request's bearer token.
type Principal struct {
	UserID uint
	Role   Role
	Email  string
}
