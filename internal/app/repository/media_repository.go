package repository

import (
	"fmt"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaFilter struct {
	Type      *model.MediaType
	Search    string
	Limit     int
	Offset    int
	Ascending bool
}

// MediaTypeStats aggregates one media type.
type MediaTypeStats struct {
	Count int64 `json:"count"`
	Bytes int64 `json:"bytes"`
}

// MediaStats is the aggregate snapshot for the admin dashboard.
type MediaStats struct {
	Total      int64                     `json:"total"`
	TotalBytes int64                     `json:"total_bytes"`
	ByType     map[string]MediaTypeStats `json:"by_type"`
}

type MediaRepository interface {
	Create(media *model.Media) error
	FindWithFilter(filter MediaFilter) ([]model.Media, int64, error)
	FindByID(id uuid.UUID) (*model.Media, error)
	Update(media *model.Media) error
	Delete(id uuid.UUID) error
	Stats() (*MediaStats, error)
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(media *model.Media) error {
	logger.Debug("Creating media record", map[string]interface{}{
		"original_name": media.OriginalName,
		"type":          media.Type,
	})

	if err := r.db.Create(media).Error; err != nil {
		logger.Error("Failed to create media record", err, map[string]interface{}{
			"original_name": media.OriginalName,
		})
		return err
	}
	return nil
}

func (r *mediaRepository) FindWithFilter(filter MediaFilter) ([]model.Media, int64, error) {
	query := r.db.Model(&model.Media{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("original_name LIKE ? OR title LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order("created_at " + direction)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var media []model.Media
	if err := query.Find(&media).Error; err != nil {
		return nil, 0, err
	}
	return media, total, nil
}

func (r *mediaRepository) FindByID(id uuid.UUID) (*model.Media, error) {
	var media model.Media
	if err := r.db.First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) Update(media *model.Media) error {
	return r.db.Save(media).Error
}

func (r *mediaRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Media{}, "id = ?", id).Error
}

func (r *mediaRepository) Stats() (*MediaStats, error) {
	var rows []struct {
		Type  model.MediaType
		Count int64
		Bytes int64
	}
	err := r.db.Model(&model.Media{}).
		Select("type, COUNT(*) as count, COALESCE(SUM(size), 0) as bytes").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &MediaStats{ByType: make(map[string]MediaTypeStats, len(rows))}
	for _, row := range rows {
		stats.Total += row.Count
		stats.TotalBytes += row.Bytes
		stats.ByType[string(row.Type)] = MediaTypeStats{Count: row.Count, Bytes: row.Bytes}
	}
	return stats, nil
}
