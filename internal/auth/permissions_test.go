package auth

import (
	"testing"

	"green-kart/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsFor_AdminContainsCustomer(t *testing.T) {
	customer := PermissionsFor(model.RoleCustomer)
	admin := PermissionsFor(model.RoleAdmin)

	assert.NotEmpty(t, customer)
	assert.Greater(t, len(admin), len(customer))

	for _, p := range customer {
		assert.Contains(t, admin, p)
	}
}

func TestPermissionsFor_AdminOnlyNotGrantedToCustomer(t *testing.T) {
	customer := PermissionsFor(model.RoleCustomer)

	assert.NotContains(t, customer, PermManageProducts)
	assert.NotContains(t, customer, PermManageOrders)
	assert.NotContains(t, customer, PermManageUsers)
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	first := PermissionsFor(model.RoleCustomer)
	first[0] = "tampered"

	second := PermissionsFor(model.RoleCustomer)
	assert.NotContains(t, second, "tampered")
}

func TestHasPermission(t *testing.T) {
	perms := PermissionsFor(model.RoleCustomer)

	assert.True(t, HasPermission(perms, PermCreateOrder))
	assert.False(t, HasPermission(perms, PermManageProducts))
	assert.False(t, HasPermission(nil, PermCreateOrder))
}
