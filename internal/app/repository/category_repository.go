package repository

import (
	"fmt"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryFilter struct {
	ParentID   *uuid.UUID
	RootsOnly  bool
	IsActive   *bool
	Search     string
	Visibility Visibility
	SortBy     string
	Ascending  bool
	Limit      int
	Offset     int
}

// CategoryStats is the aggregate snapshot for the admin dashboard.
type CategoryStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Roots  int64 `json:"roots"`
}

type CategoryRepository interface {
	Create(category *model.Category) error
	FindWithFilter(filter CategoryFilter) ([]model.Category, int64, error)
	FindByID(id uuid.UUID, visibility Visibility) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindChildren(parentID uuid.UUID) ([]model.Category, error)
	FindRootsWithChildren() ([]model.Category, error)
	FindActiveSimple() ([]model.Category, error)
	CountBySlug(slug string, excludeID *uuid.UUID) (int64, error)
	CountProducts(categoryID uuid.UUID) (int64, error)
	Update(category *model.Category) error
	Delete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	Stats() (*CategoryStats, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category", map[string]interface{}{
		"name": category.Name,
		"slug": category.Slug,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindWithFilter(filter CategoryFilter) ([]model.Category, int64, error) {
	query := applyVisibility(r.db.Model(&model.Category{}), filter.Visibility)

	if filter.RootsOnly {
		query = query.Where("parent_id IS NULL")
	} else if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "sort_order"
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

	var categories []model.Category
	if err := query.Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *categoryRepository) FindByID(id uuid.UUID, visibility Visibility) (*model.Category, error) {
	var category model.Category
	query := applyVisibility(r.db.Preload("Children"), visibility)
	if err := query.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Children").First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindChildren(parentID uuid.UUID) ([]model.Category, error) {
	var children []model.Category
	err := r.db.Where("parent_id = ?", parentID).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

// FindRootsWithChildren loads the two top levels of the forest in one
// query pair. Deeper levels are fetched per node on demand.
func (r *categoryRepository) FindRootsWithChildren() ([]model.Category, error) {
	var roots []model.Category
	err := r.db.Where("parent_id IS NULL").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("name ASC")
		}).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// FindActiveSimple returns active categories with no preloads, for
// dropdown-style pickers.
func (r *categoryRepository) FindActiveSimple() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Select("id", "name", "slug", "parent_id", "sort_order").
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CountBySlug counts across live and deleted categories; a removed
// category keeps its slug reserved.
func (r *categoryRepository) CountBySlug(slug string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.Category{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *categoryRepository) CountProducts(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Omit("Parent", "Children").Save(category).Error; err != nil {
		logger.Error("Failed to update category", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uuid.UUID) error {
	logger.Debug("Soft deleting category", map[string]interface{}{
		"category_id": id,
	})
	return r.db.Delete(&model.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) Restore(id uuid.UUID) error {
	return r.db.Unscoped().Model(&model.Category{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *categoryRepository) Stats() (*CategoryStats, error) {
	stats := &CategoryStats{}

	if err := r.db.Model(&model.Category{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Category{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Category{}).Where("parent_id IS NULL").Count(&stats.Roots).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
