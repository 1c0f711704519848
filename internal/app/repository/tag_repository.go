package repository

import (
	"fmt"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagFilter struct {
	IsActive  *bool
	Search    string
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

// TagStats is the aggregate snapshot for the admin dashboard.
type TagStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type TagRepository interface {
	Create(tag *model.Tag) error
	FindWithFilter(filter TagFilter) ([]model.Tag, int64, error)
	FindByID(id uuid.UUID, visibility Visibility) (*model.Tag, error)
	FindBySlug(slug string) (*model.Tag, error)
	FindActiveByIDs(ids []uuid.UUID) ([]model.Tag, error)
	FindByProduct(productID uuid.UUID) ([]model.Tag, error)
	FindActiveSimple() ([]model.Tag, error)
	CountByName(name string, excludeID *uuid.UUID) (int64, error)
	CountBySlug(slug string, excludeID *uuid.UUID) (int64, error)
	CountProducts(tagID uuid.UUID) (int64, error)
	Update(tag *model.Tag) error
	Delete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	Stats() (*TagStats, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag", map[string]interface{}{
		"name": tag.Name,
		"slug": tag.Slug,
	})

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag", err, map[string]interface{}{
			"slug": tag.Slug,
		})
		return err
	}
	return nil
}

func (r *tagRepository) FindWithFilter(filter TagFilter) ([]model.Tag, int64, error) {
	query := r.db.Model(&model.Tag{})

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

	var tags []model.Tag
	if err := query.Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *tagRepository) FindByID(id uuid.UUID, visibility Visibility) (*model.Tag, error) {
	var tag model.Tag
	if err := applyVisibility(r.db, visibility).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindBySlug(slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindActiveByIDs(ids []uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.Where("id IN ? AND is_active = ?", ids, true).Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByProduct(productID uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Joins("JOIN product_tags ON product_tags.tag_id = tags.id").
		Where("product_tags.product_id = ?", productID).
		Order("tags.sort_order ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) CountByName(name string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.Tag{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *tagRepository) CountBySlug(slug string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.Tag{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *tagRepository) CountProducts(tagID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("product_tags").
		Where("tag_id = ?", tagID).
		Count(&count).Error
	return count, err
}

func (r *tagRepository) Update(tag *model.Tag) error {
	if err := r.db.Omit("Products").Save(tag).Error; err != nil {
		logger.Error("Failed to update tag", err, map[string]interface{}{
			"tag_id": tag.ID,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Tag{}, "id = ?", id).Error
}

func (r *tagRepository) Restore(id uuid.UUID) error {
	return r.db.Unscoped().Model(&model.Tag{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// FindActiveSimple returns active tags with no associations, for
// dropdown-style pickers.
func (r *tagRepository) FindActiveSimple() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Select("id", "name", "slug", "sort_order").
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Stats() (*TagStats, error) {
	stats := &TagStats{}

	if err := r.db.Model(&model.Tag{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Tag{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
