package service

import (
	"errors"
	"strings"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/ikkim/udonggeum-backend/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagNameExists = errors.New("tag name already exists")
	ErrTagSlugExists = errors.New("tag slug already exists")
	ErrTagInvalid    = errors.New("one or more tags do not exist or are inactive")
)

type CreateTagInput struct {
	Name        string
	Slug        string
	Description string
	IsActive    *bool
	SortOrder   *int
}

type UpdateTagInput struct {
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
	SortOrder   *int
}

type TagListOptions struct {
	IsActive  *bool
	Search    string
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}

type TagService interface {
	ListTags(opts TagListOptions) ([]model.Tag, int64, error)
	GetTagByID(id uuid.UUID) (*model.Tag, error)
	GetTagBySlug(slug string) (*model.Tag, error)
	CreateTag(input CreateTagInput) (*model.Tag, error)
	UpdateTag(id uuid.UUID, input UpdateTagInput) (*model.Tag, error)
	DeleteTag(id uuid.UUID) error
	RestoreTag(id uuid.UUID) (*model.Tag, error)
	BulkDeleteTags(ids []uuid.UUID) *BulkOperationResult
	GetSimpleList() ([]model.Tag, error)
	GetStats() (*repository.TagStats, error)
	AssignTags(productID uuid.UUID, tagIDs []uuid.UUID) ([]model.Tag, error)
	RemoveTag(productID, tagID uuid.UUID) error
	GetProductTags(productID uuid.UUID) ([]model.Tag, error)
}

type tagService struct {
	tagRepo     repository.TagRepository
	productRepo repository.ProductRepository
}

func NewTagService(tagRepo repository.TagRepository, productRepo repository.ProductRepository) TagService {
	return &tagService{
		tagRepo:     tagRepo,
		productRepo: productRepo,
	}
}

func (s *tagService) ListTags(opts TagListOptions) ([]model.Tag, int64, error) {
	return s.tagRepo.FindWithFilter(repository.TagFilter{
		IsActive:  opts.IsActive,
		Search:    opts.Search,
		SortBy:    opts.SortBy,
		Ascending: opts.Ascending,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
}

func (s *tagService) GetTagByID(id uuid.UUID) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTagBySlug(slug string) (*model.Tag, error) {
	tag, err := s.tagRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) CreateTag(input CreateTagInput) (*model.Tag, error) {
	name := strings.TrimSpace(input.Name)
	slug := input.Slug
	if slug == "" {
		slug = util.Slugify(name)
	} else {
		slug = util.Slugify(slug)
	}

	nameCount, err := s.tagRepo.CountByName(name, nil)
	if err != nil {
		return nil, err
	}
	if nameCount > 0 {
		return nil, ErrTagNameExists
	}
	slugCount, err := s.tagRepo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if slugCount > 0 {
		return nil, ErrTagSlugExists
	}

	tag := &model.Tag{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		tag.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		tag.SortOrder = *input.SortOrder
	}

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}

	logger.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})
	return tag, nil
}

func (s *tagService) UpdateTag(id uuid.UUID, input UpdateTagInput) (*model.Tag, error) {
	tag, err := s.GetTagByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != tag.Name {
		name := strings.TrimSpace(*input.Name)
		count, err := s.tagRepo.CountByName(name, &tag.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrTagNameExists
		}
		tag.Name = name
	}
	if input.Slug != nil && util.Slugify(*input.Slug) != tag.Slug {
		slug := util.Slugify(*input.Slug)
		count, err := s.tagRepo.CountBySlug(slug, &tag.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrTagSlugExists
		}
		tag.Slug = slug
	}
	if input.Description != nil {
		tag.Description = *input.Description
	}
	if input.IsActive != nil {
		tag.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		tag.SortOrder = *input.SortOrder
	}

	if err := s.tagRepo.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag soft deletes the tag. Product associations stay in the join
// table but stop resolving, so products simply lose the label.
func (s *tagService) DeleteTag(id uuid.UUID) error {
	tag, err := s.GetTagByID(id)
	if err != nil {
		return err
	}

	if err := s.tagRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
		"name":   tag.Name,
	})
	return nil
}

func (s *tagService) RestoreTag(id uuid.UUID) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id, repository.VisibilityAll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	if !tag.DeletedAt.Valid {
		return nil, ErrNotDeleted
	}

	if err := s.tagRepo.Restore(id); err != nil {
		return nil, err
	}

	logger.Info("Tag restored", map[string]interface{}{
		"tag_id": id,
	})
	return s.GetTagByID(id)
}

func (s *tagService) BulkDeleteTags(ids []uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if err := s.DeleteTag(id); err != nil {
			logger.Warn("Bulk tag delete item failed", map[string]interface{}{
				"tag_id": id,
				"error":  err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *tagService) GetSimpleList() ([]model.Tag, error) {
	return s.tagRepo.FindActiveSimple()
}

func (s *tagService) GetStats() (*repository.TagStats, error) {
	return s.tagRepo.Stats()
}

// AssignTags replaces the product's tag set with exactly the given tags.
// Every ID must name an existing active tag or the whole call fails.
func (s *tagService) AssignTags(productID uuid.UUID, tagIDs []uuid.UUID) ([]model.Tag, error) {
	product, err := s.productRepo.FindByID(productID, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	tags, err := s.tagRepo.FindActiveByIDs(tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, ErrTagInvalid
	}

	err = s.productRepo.DB().Model(product).Association("Tags").Replace(tags)
	if err != nil {
		return nil, err
	}

	logger.Info("Product tags assigned", map[string]interface{}{
		"product_id": productID,
		"tag_count":  len(tags),
	})
	return tags, nil
}

// RemoveTag detaches one tag from a product. Removing a tag that is not
// attached is not an error.
func (s *tagService) RemoveTag(productID, tagID uuid.UUID) error {
	product, err := s.productRepo.FindByID(productID, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	tag, err := s.GetTagByID(tagID)
	if err != nil {
		return err
	}

	return s.productRepo.DB().Model(product).Association("Tags").Delete(tag)
}

func (s *tagService) GetProductTags(productID uuid.UUID) ([]model.Tag, error) {
	if _, err := s.productRepo.FindByID(productID, repository.VisibilityDefault); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.tagRepo.FindByProduct(productID)
}
