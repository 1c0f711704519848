package db

import (
	"os"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
)

// Seed inserts the baseline records a fresh installation needs: the default
// permission catalog, the platform roles, and one super admin account.
// Every step is idempotent; existing rows are left untouched.
func Seed() error {
	logger.Info("Seeding initial data...")

	if err := seedPermissions(); err != nil {
		logger.Error("Failed to seed permissions", err)
		return err
	}

	if err := seedRoles(); err != nil {
		logger.Error("Failed to seed roles", err)
		return err
	}

	if err := seedSuperAdmin(); err != nil {
		logger.Error("Failed to seed super admin user", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// DefaultPermissions is the built-in permission catalog in module.action form
var DefaultPermissions = []model.Permission{
	{Name: "users.create", Module: "users", Action: "create", DisplayName: "Create Users"},
	{Name: "users.read", Module: "users", Action: "read", DisplayName: "View Users"},
	{Name: "users.update", Module: "users", Action: "update", DisplayName: "Update Users"},
	{Name: "users.delete", Module: "users", Action: "delete", DisplayName: "Delete Users"},
	{Name: "roles.create", Module: "roles", Action: "create", DisplayName: "Create Roles"},
	{Name: "roles.read", Module: "roles", Action: "read", DisplayName: "View Roles"},
	{Name: "roles.update", Module: "roles", Action: "update", DisplayName: "Update Roles"},
	{Name: "roles.delete", Module: "roles", Action: "delete", DisplayName: "Delete Roles"},
	{Name: "products.create", Module: "products", Action: "create", DisplayName: "Create Products"},
	{Name: "products.read", Module: "products", Action: "read", DisplayName: "View Products"},
	{Name: "products.update", Module: "products", Action: "update", DisplayName: "Update Products"},
	{Name: "products.delete", Module: "products", Action: "delete", DisplayName: "Delete Products"},
	{Name: "orders.create", Module: "orders", Action: "create", DisplayName: "Create Orders"},
	{Name: "orders.read", Module: "orders", Action: "read", DisplayName: "View Orders"},
	{Name: "orders.update", Module: "orders", Action: "update", DisplayName: "Update Orders"},
	{Name: "orders.delete", Module: "orders", Action: "delete", DisplayName: "Delete Orders"},
	{Name: "settings.read", Module: "settings", Action: "read", DisplayName: "View Settings"},
	{Name: "settings.update", Module: "settings", Action: "update", DisplayName: "Update Settings"},
}

func seedPermissions() error {
	for _, perm := range DefaultPermissions {
		var count int64
		if err := DB.Model(&model.Permission{}).Where("name = ?", perm.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		p := perm
		p.IsActive = true
		if err := DB.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRoles() error {
	var allPermissions []model.Permission
	if err := DB.Find(&allPermissions).Error; err != nil {
		return err
	}

	roles := []model.Role{
		{Name: string(model.RoleSuperAdmin), DisplayName: "Super Admin", IsSystem: true, IsActive: true, Permissions: allPermissions},
		{Name: string(model.RoleAdmin), DisplayName: "Admin", IsSystem: true, IsActive: true, Permissions: allPermissions},
		{Name: string(model.RoleCustomer), DisplayName: "Customer", IsActive: true},
		{Name: string(model.RoleVendor), DisplayName: "Vendor", IsActive: true},
	}

	for _, role := range roles {
		var count int64
		if err := DB.Model(&model.Role{}).Where("name = ?", role.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		r := role
		if err := DB.Create(&r).Error; err != nil {
			return err
		}
		logger.Info("Seeded role", map[string]interface{}{
			"name":      r.Name,
			"is_system": r.IsSystem,
		})
	}
	return nil
}

func seedSuperAdmin() error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping super admin seed")
		return nil
	}

	var count int64
	if err := DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var superAdminRole model.Role
	if err := DB.Where("name = ?", string(model.RoleSuperAdmin)).First(&superAdminRole).Error; err != nil {
		return err
	}

	user := model.User{
		FirstName:     "Super",
		LastName:      "Admin",
		Email:         email,
		Password:      password, // hashed by the model save hook
		Status:        model.UserActive,
		EmailVerified: true,
		RoleID:        superAdminRole.ID,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	logger.Info("Seeded super admin user", map[string]interface{}{
		"email": email,
	})
	return nil
}
