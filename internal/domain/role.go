package domain

// Role enumerates the account roles known to the ferry backend.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleAgent      Role = "agent"
	RoleCustomer   Role = "customer"
)

// Roles lists every known role in privilege order.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleAgent, RoleCustomer}

// IsKnown reports whether r is one of the enumerated roles. Spellings the
// backend does not define (for example "super_admin") are unknown and match
// no role restriction.
func (r Role) IsKnown() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAgent, RoleCustomer:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
