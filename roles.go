package gymauth

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleMember, RoleTrainer, RoleStaff:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleAdmin,
		RoleMember,
		RoleTrainer,
		RoleStaff,
	}
}

// PrimaryRole collapses the server's ordered roles list into the single role
// the client tracks. The first element wins; an empty or missing list keeps
// the prior value untouched. Validity is not enforced here, the backend is
// the authority on which roles exist.
func PrimaryRole(roles []string, prior UserRole) UserRole {
	if len(roles) == 0 {
		return prior
	}
	return UserRole(roles[0])
}

// RoleIn reports whether role is a member of the required set. An empty set
// admits every role.
func RoleIn(role UserRole, required []UserRole) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
