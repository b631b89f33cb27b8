package blog

// Rule is a pure authorization predicate over request claims. Rules perform
// no I/O; ownership rules therefore run after the resource has been loaded,
// since ownership is a property of the loaded entity.
type Rule func(claims AuthClaims) error

// Authorize evaluates rules in order and returns the first failure. A nil
// claims value is treated as anonymous.
func Authorize(claims AuthClaims, rules ...Rule) error {
	if claims == nil {
		claims = AnonymousClaims()
	}
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule(claims); err != nil {
			return err
		}
	}
	return nil
}

// RequireAuthenticated passes only for claims with a verified subject.
func RequireAuthenticated() Rule {
	return func(claims AuthClaims) error {
		if claims == nil || !claims.IsAuthenticated() {
			return ErrNotAuthenticated
		}
		return nil
	}
}

// RequireRole passes when the actor is authenticated and holds role.
// An unauthenticated actor fails with a not-authenticated error, an
// authenticated actor without the role fails with access denied; the two
// causes stay distinguishable in the error taxonomy.
func RequireRole(role string) Rule {
	return func(claims AuthClaims) error {
		if claims == nil || !claims.IsAuthenticated() {
			return ErrNotAuthenticated
		}
		if !claims.HasRole(role) {
			return ErrAccessDenied
		}
		return nil
	}
}

// RequireAtLeast passes when the actor's highest role meets the minimum
// level in the role hierarchy.
func RequireAtLeast(minRole UserRole) Rule {
	return func(claims AuthClaims) error {
		if claims == nil || !claims.IsAuthenticated() {
			return ErrNotAuthenticated
		}
		if !RoleIsAtLeast(HighestRole(claims.Roles()), minRole) {
			return ErrAccessDenied
		}
		return nil
	}
}

// RequireOwnerOrRole passes when the actor is the owner of the loaded
// resource or holds the override role.
func RequireOwnerOrRole(ownerID string, role string) Rule {
	return func(claims AuthClaims) error {
		if claims == nil || !claims.IsAuthenticated() {
			return ErrNotAuthenticated
		}
		if ownerID != "" && claims.UserID() == ownerID {
			return nil
		}
		if claims.HasRole(role) {
			return nil
		}
		return ErrAccessDenied
	}
}
