package auth

import "github.com/spec-kit/ferry-admin/internal/domain"

// NavItem is one menu entry. A nil Roles leaves the item unrestricted.
type NavItem struct {
	Label string        `json:"label"`
	Path  string        `json:"path"`
	Icon  string        `json:"icon,omitempty"`
	Roles []domain.Role `json:"roles,omitempty"`
}

// NavGroup is a titled section of the menu. A nil Roles leaves the group
// unrestricted.
type NavGroup struct {
	Title string        `json:"title"`
	Roles []domain.Role `json:"roles,omitempty"`
	Items []NavItem     `json:"items"`
}

// FilterNavigation returns the groups and items visible to role, in their
// original order. Groups whose items are all filtered out are dropped.
// The input is not modified.
func FilterNavigation(groups []NavGroup, role domain.Role) []NavGroup {
	visible := make([]NavGroup, 0, len(groups))
	for _, group := range groups {
		if !admits(group.Roles, role) {
			continue
		}
		items := make([]NavItem, 0, len(group.Items))
		for _, item := range group.Items {
			if admits(item.Roles, role) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		group.Items = items
		visible = append(visible, group)
	}
	return visible
}

// DefaultNavigation is the admin menu.
func DefaultNavigation() []NavGroup {
	return []NavGroup{
		{
			Title: "Overview",
			Items: []NavItem{
				{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
			},
		},
		{
			Title: "Operations",
			Roles: BookingDeskRoles,
			Items: []NavItem{
				{Label: "Bookings", Path: "/bookings", Icon: "ticket"},
				{Label: "Customers", Path: "/customers", Icon: "users"},
				{Label: "Routes", Path: "/routes", Icon: "map", Roles: AdminRoles},
				{Label: "Vessels", Path: "/vessels", Icon: "ship", Roles: AdminRoles},
			},
		},
		{
			Title: "Administration",
			Roles: AdminRoles,
			Items: []NavItem{
				{Label: "Users", Path: "/users", Icon: "shield"},
			},
		},
		{
			Title: "Account",
			Items: []NavItem{
				{Label: "Profile", Path: "/profile", Icon: "user"},
			},
		},
	}
}
