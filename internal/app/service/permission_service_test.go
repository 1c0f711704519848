package service

import (
	"testing"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPermissionServiceTest(t *testing.T) (PermissionService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	permissionRepo := repository.NewPermissionRepository(testDB)
	return NewPermissionService(permissionRepo), testDB
}

func TestPermissionService_CreatePermission(t *testing.T) {
	svc, _ := setupPermissionServiceTest(t)

	t.Run("Name split into module and action", func(t *testing.T) {
		permission, err := svc.CreatePermission(CreatePermissionInput{
			Name: "products.create",
		})
		require.NoError(t, err)
		assert.Equal(t, "products", permission.Module)
		assert.Equal(t, "create", permission.Action)
		assert.Equal(t, "Products Create", permission.DisplayName)
		assert.True(t, permission.IsActive)
	})

	t.Run("Name composed from module and action", func(t *testing.T) {
		permission, err := svc.CreatePermission(CreatePermissionInput{
			Module: "orders",
			Action: "read",
		})
		require.NoError(t, err)
		assert.Equal(t, "orders.read", permission.Name)
	})

	t.Run("Explicit display name wins", func(t *testing.T) {
		permission, err := svc.CreatePermission(CreatePermissionInput{
			Name:        "orders.update",
			DisplayName: "Edit Orders",
		})
		require.NoError(t, err)
		assert.Equal(t, "Edit Orders", permission.DisplayName)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		_, err := svc.CreatePermission(CreatePermissionInput{
			Name: "products.create",
		})
		assert.ErrorIs(t, err, ErrPermissionExists)
	})
}

func TestPermissionService_ListGroupedByModule(t *testing.T) {
	svc, _ := setupPermissionServiceTest(t)

	for _, name := range []string{"users.read", "users.create", "roles.read"} {
		_, err := svc.CreatePermission(CreatePermissionInput{Name: name})
		require.NoError(t, err)
	}

	grouped, err := svc.ListGroupedByModule()
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["users"], 2)
	assert.Len(t, grouped["roles"], 1)
}

func TestPermissionService_UpdatePermission(t *testing.T) {
	svc, _ := setupPermissionServiceTest(t)

	permission, err := svc.CreatePermission(CreatePermissionInput{Name: "settings.read"})
	require.NoError(t, err)

	inactive := false
	display := "Settings Viewer"
	updated, err := svc.UpdatePermission(permission.ID, UpdatePermissionInput{
		DisplayName: &display,
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Settings Viewer", updated.DisplayName)
	assert.False(t, updated.IsActive)
	// Identity fields never change.
	assert.Equal(t, "settings.read", updated.Name)
}

func TestPermissionService_DeletePermission(t *testing.T) {
	svc, testDB := setupPermissionServiceTest(t)

	permission, err := svc.CreatePermission(CreatePermissionInput{Name: "users.delete"})
	require.NoError(t, err)

	t.Run("Permission held by a role cannot be deleted", func(t *testing.T) {
		role := &model.Role{Name: "holder", IsActive: true, Permissions: []model.Permission{*permission}}
		require.NoError(t, testDB.Create(role).Error)

		err := svc.DeletePermission(permission.ID)
		assert.ErrorIs(t, err, ErrPermissionInUse)

		require.NoError(t, testDB.Model(role).Association("Permissions").Clear())
	})

	t.Run("Unreferenced permission deletes", func(t *testing.T) {
		require.NoError(t, svc.DeletePermission(permission.ID))

		_, err := svc.GetPermissionByID(permission.ID)
		assert.ErrorIs(t, err, ErrPermissionNotFound)
	})

	t.Run("Unknown id", func(t *testing.T) {
		err := svc.DeletePermission(uuid.New())
		assert.ErrorIs(t, err, ErrPermissionNotFound)
	})
}

func TestPermissionService_SeedDefaults(t *testing.T) {
	svc, _ := setupPermissionServiceTest(t)

	defaults := []model.Permission{
		{Name: "users.read", Module: "users", Action: "read"},
		{Name: "users.create", Module: "users", Action: "create"},
	}

	created, err := svc.SeedDefaults(defaults)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// Second run is a no-op.
	created, err = svc.SeedDefaults(defaults)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	permissions, total, err := svc.ListPermissions(PermissionListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, permissions, 2)
}
