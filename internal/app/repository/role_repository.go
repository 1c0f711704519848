package repository

import (
	"fmt"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleFilter struct {
	IsActive  *bool
	IsSystem  *bool
	Search    string
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

// RoleStats is the aggregate snapshot for the admin dashboard.
type RoleStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	System int64 `json:"system"`
}

type RoleRepository interface {
	Create(role *model.Role) error
	FindWithFilter(filter RoleFilter) ([]model.Role, int64, error)
	FindByID(id uuid.UUID) (*model.Role, error)
	FindByName(name string) (*model.Role, error)
	FindActiveSimple() ([]model.Role, error)
	Update(role *model.Role) error
	ReplacePermissions(role *model.Role, permissions []model.Permission) error
	Delete(id uuid.UUID) error
	CountUsers(roleID uuid.UUID) (int64, error)
	Stats() (*RoleStats, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(role *model.Role) error {
	logger.Debug("Creating role", map[string]interface{}{
		"name": role.Name,
	})

	if err := r.db.Create(role).Error; err != nil {
		logger.Error("Failed to create role", err, map[string]interface{}{
			"name": role.Name,
		})
		return err
	}
	return nil
}

func (r *roleRepository) FindWithFilter(filter RoleFilter) ([]model.Role, int64, error) {
	query := r.db.Model(&model.Role{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsSystem != nil {
		query = query.Where("is_system = ?", *filter.IsSystem)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("name LIKE ? OR display_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order(sortBy + " " + direction)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var roles []model.Role
	if err := query.Preload("Permissions").Find(&roles).Error; err != nil {
		logger.Error("Failed to find roles with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *roleRepository) FindByID(id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Permissions").First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Update(role *model.Role) error {
	if err := r.db.Omit("Permissions").Save(role).Error; err != nil {
		logger.Error("Failed to update role", err, map[string]interface{}{
			"role_id": role.ID,
		})
		return err
	}
	return nil
}

// ReplacePermissions swaps the role's entire permission set in one
// association replace. Callers pass the full desired set, not a delta.
func (r *roleRepository) ReplacePermissions(role *model.Role, permissions []model.Permission) error {
	logger.Debug("Replacing role permissions", map[string]interface{}{
		"role_id":          role.ID,
		"permission_count": len(permissions),
	})

	if err := r.db.Model(role).Association("Permissions").Replace(permissions); err != nil {
		logger.Error("Failed to replace role permissions", err, map[string]interface{}{
			"role_id": role.ID,
		})
		return err
	}
	role.Permissions = permissions
	return nil
}

func (r *roleRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Role{}, "id = ?", id).Error
}

// CountUsers counts live users still assigned to the role.
func (r *roleRepository) CountUsers(roleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("role_id = ?", roleID).
		Count(&count).Error
	return count, err
}

// FindActiveSimple returns active roles without permissions, for
// dropdown-style pickers.
func (r *roleRepository) FindActiveSimple() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Select("id", "name", "display_name").
		Where("is_active = ?", true).
		Order("display_name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Stats() (*RoleStats, error) {
	stats := &RoleStats{}

	if err := r.db.Model(&model.Role{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Role{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Role{}).Where("is_system = ?", true).Count(&stats.System).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
