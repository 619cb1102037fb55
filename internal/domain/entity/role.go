// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the authorization role of an account.
type Role string

const (
	// RoleAdmin indicates a fully privileged administrator.
	RoleAdmin Role = "admin"
	// RoleModerator indicates an account that may update but not delete shared data.
	RoleModerator Role = "moderator"
	// RoleUser indicates a regular account holder.
	RoleUser Role = "user"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts a string into a Role, reporting whether it is valid.
func ParseRole(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}

// RoleRequirement is the set of roles permitted to invoke an operation.
// It is attached to a route at registration time and consulted per request.
// The zero value permits nothing.
type RoleRequirement []Role

// Allows reports whether the caller's role is a member of the requirement set.
// It is a pure membership test; roles carry no implicit hierarchy.
func (rr RoleRequirement) Allows(role Role) bool {
	return slices.Contains(rr, role)
}

// Route-level requirement sets for the contact endpoints. The ladder is
// deliberate: destructive operations require strictly fewer, higher-trust roles.
var (
	// RequireAnyRole permits read and create operations.
	RequireAnyRole = RoleRequirement{RoleAdmin, RoleModerator, RoleUser}
	// RequireModerator permits update operations.
	RequireModerator = RoleRequirement{RoleAdmin, RoleModerator}
	// RequireAdmin permits delete operations.
	RequireAdmin = RoleRequirement{RoleAdmin}
)
