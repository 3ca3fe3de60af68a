package auth

import (
	"slices"

	"github.com/spec-kit/ferry-admin/internal/domain"
)

// Role sets used by navigation and page guards.
var (
	AdminRoles       = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}
	BookingDeskRoles = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleAgent}
)

// Allows reports whether role is a member of allowed. Roles outside the
// enumeration never match, whatever the allow list contains.
func Allows(role domain.Role, allowed []domain.Role) bool {
	switch role {
	case domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer:
		return slices.Contains(allowed, role)
	default:
		return false
	}
}

// admits applies an optional restriction: nil means unrestricted.
func admits(restriction []domain.Role, role domain.Role) bool {
	if restriction == nil {
		return true
	}
	return Allows(role, restriction)
}
