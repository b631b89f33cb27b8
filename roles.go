package blog

// RoleGuest is the implicit level of an anonymous caller. It is never
// stored on an account; it only anchors the bottom of the hierarchy.
const RoleGuest UserRole = "guest"

// roleHierarchy orders roles from least to most privileged.
var roleHierarchy = map[UserRole]int{
	RoleGuest:  0,
	RoleMember: 1,
	RoleAdmin:  2,
}

// RoleIsValid checks if the role is one of the predefined valid roles
func RoleIsValid(role UserRole) bool {
	_, ok := roleHierarchy[role]
	return ok
}

// RoleIsAtLeast checks if role meets the minimum required level. Unknown
// roles never qualify.
func RoleIsAtLeast(role, minRole UserRole) bool {
	currentLevel, ok := roleHierarchy[role]
	if !ok {
		return false
	}

	minLevel, ok := roleHierarchy[minRole]
	if !ok {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleGuest,
		RoleMember,
		RoleAdmin,
	}
}

// ParseRole safely checks a string against the known role set
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, RoleIsValid(role)
}

// HighestRole returns the most privileged role in the set, or RoleGuest
// when the set holds none of the known roles.
func HighestRole(roles []string) UserRole {
	highest := RoleGuest
	for _, r := range roles {
		if RoleIsValid(r) && RoleIsAtLeast(r, highest) {
			highest = r
		}
	}
	return highest
}
