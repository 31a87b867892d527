// Package auth issues and verifies session tokens and expands roles into
// permission sets.
package auth

import "green-kart/internal/model"

// Customer permissions
const (
	PermViewProducts  = "user:view_products"
	PermCreateOrder   = "user:create_order"
	PermViewOwnOrders = "user:view_own_orders"
	PermManageCart    = "user:manage_cart"
)

// Admin-only permissions
const (
	PermManageProducts  = "admin:manage_products"
	PermManageOrders    = "admin:manage_orders"
	PermManageUsers     = "admin:manage_users"
	PermViewAnalytics   = "admin:view_analytics"
	PermManageInventory = "admin:manage_inventory"
)

var customerPermissions = []string{
	PermViewProducts,
	PermCreateOrder,
	PermViewOwnOrders,
	PermManageCart,
}

var adminOnlyPermissions = []string{
	PermManageProducts,
	PermManageOrders,
	PermManageUsers,
	PermViewAnalytics,
	PermManageInventory,
}

// PermissionsFor expands a role into its permission set. The admin set is
// the union of every customer permission plus the admin-only permissions.
// The mapping is static; it is never mutated at runtime.
func PermissionsFor(role model.Role) []string {
	switch role {
	case model.RoleAdmin:
		perms := make([]string, 0, len(customerPermissions)+len(adminOnlyPermissions))
		perms = append(perms, customerPermissions...)
		perms = append(perms, adminOnlyPermissions...)
		return perms
	default:
		perms := make([]string, len(customerPermissions))
		copy(perms, customerPermissions)
		return perms
	}
}

// HasPermission tests membership against a token's embedded permission
// set. The catalog is deliberately not re-queried here: permissions
// granted at issue time hold until the token expires.
func HasPermission(permissions []string, required string) bool {
	for _, p := range permissions {
		if p == required {
			return true
		}
	}
	return false
}
