package services

import (
	"context"
	"testing"

	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRemove_LinkedToProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addProject("p1")

	err := env.customers.Remove(ctx, admin, customerID)
	assert.True(t, common.HasCode(err, common.ErrCodeConflict))
	assert.EqualError(t, err, "Can't remove customer because it's linked to project")

	_, err = env.customers.Get(ctx, customerID)
	require.NoError(t, err)
}

func TestCatalog_CreateUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)

	created, err := env.customers.Create(ctx, admin, dto.CatalogRequest{Name: "Globex", Email: "ops@globex.test"})
	require.NoError(t, err)
	assert.Equal(t, "ops@globex.test", created.Email)

	_, err = env.customers.Create(ctx, admin, dto.CatalogRequest{Name: "Globex"})
	assert.EqualError(t, err, "Customer already exists")

	_, err = env.customers.Update(ctx, admin, dto.UpdateCatalogRequest{ID: created.ID, Name: memstore.Ref("Acme")})
	assert.EqualError(t, err, "Customer already exists")

	updated, err := env.customers.Update(ctx, admin, dto.UpdateCatalogRequest{ID: created.ID, Phone: memstore.Ref("0901234567")})
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Name)
	assert.Equal(t, "0901234567", updated.Phone)

	require.NoError(t, env.customers.Remove(ctx, admin, created.ID))
	err = env.customers.Remove(ctx, admin, created.ID)
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))
	assert.EqualError(t, err, "Not found customer")

	rows, err := env.customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, customerID, rows[0].ID)
}

func TestStatusRemove_LinkedToProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)
	env.addProject("p1")

	err := env.statuses.Remove(ctx, admin, openStatusID)
	assert.EqualError(t, err, "Can't remove status because it's linked to project")
	assert.Equal(t, "Status", env.statuses.Label())
}

func TestRoleService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)

	_, err := env.roles.Create(ctx, admin, dto.CreateRoleRequest{Name: "Manager"})
	assert.EqualError(t, err, "Role already exists")

	_, err = env.roles.Create(ctx, admin, dto.CreateRoleRequest{Name: "Auditor", PermissionIDs: []string{"perm-missing"}})
	assert.EqualError(t, err, "One or more permissions does not exist")

	auditor, err := env.roles.Create(ctx, admin, dto.CreateRoleRequest{Name: "Auditor", PermissionIDs: []string{"perm-get-user"}})
	require.NoError(t, err)
	require.Len(t, auditor.Permissions, 1)
	assert.Equal(t, "/api/v1/users/:id", auditor.Permissions[0].APIPath)

	_, err = env.roles.Update(ctx, admin, dto.UpdateRoleRequest{ID: managerRoleID, Name: memstore.Ref("Lead")})
	assert.EqualError(t, err, "Built-in role Manager cannot be renamed")

	renamed, err := env.roles.Update(ctx, admin, dto.UpdateRoleRequest{ID: auditor.ID, Name: memstore.Ref("Reviewer")})
	require.NoError(t, err)
	assert.Equal(t, "Reviewer", renamed.Name)

	roles, err := env.roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 4)

	err = env.roles.Remove(ctx, admin, adminRoleID)
	assert.EqualError(t, err, "Can't remove role because it's linked to user")
	require.NoError(t, env.roles.Remove(ctx, admin, auditor.ID))
}

func TestPermissionService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)

	created, err := env.permissions.Create(ctx, admin, dto.CreatePermissionRequest{
		Name:    "Export users",
		APIPath: "/API/v1/Users/Export",
		Method:  "get",
		Module:  "users",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/users/export", created.APIPath)
	assert.Equal(t, "GET", created.Method)
	assert.Equal(t, "USERS", created.Module)

	_, err = env.permissions.Create(ctx, admin, dto.CreatePermissionRequest{
		Name:    "Again",
		APIPath: "/api/v1/users/export",
		Method:  "GET",
		Module:  "USERS",
	})
	assert.True(t, common.HasCode(err, common.ErrCodeValidation))

	err = env.permissions.Remove(ctx, admin, "perm-list-users")
	assert.EqualError(t, err, "Can't remove permission because it's linked to role")
	require.NoError(t, env.permissions.Remove(ctx, admin, created.ID))
}

func TestCatalogCreate_ReusesDeletedName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", adminRoleID)

	first, err := env.customers.Create(ctx, admin, dto.CatalogRequest{Name: "Globex"})
	require.NoError(t, err)
	require.NoError(t, env.customers.Remove(ctx, admin, first.ID))

	second, err := env.customers.Create(ctx, admin, dto.CatalogRequest{Name: "Globex"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = env.customers.Create(ctx, admin, dto.CatalogRequest{Name: "Globex"})
	assert.EqualError(t, err, "Customer already exists")
}
