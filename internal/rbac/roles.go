package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleMember     = "member"
	RoleAccountant = "accountant"
)

func IsOwner(role string) bool { return role == RoleOwner }

func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember, RoleAccountant:
		return true
	}
	return false
}
