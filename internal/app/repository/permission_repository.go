package repository

import (
	"fmt"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionFilter struct {
	Module    string
	IsActive  *bool
	Search    string
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

type PermissionRepository interface {
	Create(permission *model.Permission) error
	FindWithFilter(filter PermissionFilter) ([]model.Permission, int64, error)
	FindByID(id uuid.UUID) (*model.Permission, error)
	FindByName(name string) (*model.Permission, error)
	FindByNames(names []string) ([]model.Permission, error)
	FindByIDs(ids []uuid.UUID) ([]model.Permission, error)
	ListModules() ([]string, error)
	Update(permission *model.Permission) error
	Delete(id uuid.UUID) error
	CountByName(name string) (int64, error)
	CountRoleLinks(permissionID uuid.UUID) (int64, error)
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(permission *model.Permission) error {
	logger.Debug("Creating permission", map[string]interface{}{
		"name":   permission.Name,
		"module": permission.Module,
	})

	if err := r.db.Create(permission).Error; err != nil {
		logger.Error("Failed to create permission", err, map[string]interface{}{
			"name": permission.Name,
		})
		return err
	}
	return nil
}

func (r *permissionRepository) FindWithFilter(filter PermissionFilter) ([]model.Permission, int64, error) {
	query := r.db.Model(&model.Permission{})

	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
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
		sortBy = "module"
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order(sortBy + " " + direction).Order("name ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var permissions []model.Permission
	if err := query.Find(&permissions).Error; err != nil {
		logger.Error("Failed to find permissions with filter", err, map[string]interface{}{
			"module": filter.Module,
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return permissions, total, nil
}

func (r *permissionRepository) FindByID(id uuid.UUID) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.First(&permission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) FindByName(name string) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.First(&permission, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) FindByNames(names []string) ([]model.Permission, error) {
	var permissions []model.Permission
	if len(names) == 0 {
		return permissions, nil
	}
	if err := r.db.Where("name IN ?", names).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepository) FindByIDs(ids []uuid.UUID) ([]model.Permission, error) {
	var permissions []model.Permission
	if len(ids) == 0 {
		return permissions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepository) ListModules() ([]string, error) {
	var modules []string
	err := r.db.Model(&model.Permission{}).
		Distinct().
		Order("module ASC").
		Pluck("module", &modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *permissionRepository) Update(permission *model.Permission) error {
	if err := r.db.Save(permission).Error; err != nil {
		logger.Error("Failed to update permission", err, map[string]interface{}{
			"permission_id": permission.ID,
		})
		return err
	}
	return nil
}

func (r *permissionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Permission{}, "id = ?", id).Error
}

// CountRoleLinks counts role_permissions rows referencing the permission.
func (r *permissionRepository) CountRoleLinks(permissionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("role_permissions").
		Where("permission_id = ?", permissionID).
		Count(&count).Error
	return count, err
}

// CountByName counts name matches across live and soft deleted rows, so a
// deleted permission still blocks reuse of its name.
func (r *permissionRepository) CountByName(name string) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Permission{}).
		Where("name = ?", name).
		Count(&count).Error
	return count, err
}
