package authgate

// IsValidRole checks the role against the predefined set.
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole.
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// RoleIn reports whether role is a member of the required set. An empty set
// never matches.
func RoleIn(role UserRole, required ...UserRole) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// AllRoles returns the predefined roles in hierarchical order.
func AllRoles() []UserRole {
	return []UserRole{RoleUser, RoleModerator, RoleAdmin}
}
