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
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategorySlugExists = errors.New("category slug already exists")
	ErrCategorySelfParent = errors.New("category cannot be its own parent")
	ErrCategoryCycle      = errors.New("category parent would create a cycle")
	ErrParentNotFound     = errors.New("parent category not found")
	ErrNotDeleted         = errors.New("resource is not deleted")
)

type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
	ParentID    *uuid.UUID
	IsActive    *bool
	SortOrder   *int
}

type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	Image       *string
	ParentID    *uuid.UUID
	ClearParent bool
	IsActive    *bool
	SortOrder   *int
}

type CategoryListOptions struct {
	ParentID    *uuid.UUID
	RootsOnly   bool
	IsActive    *bool
	Search      string
	DeletedOnly bool
	WithDeleted bool
	SortBy      string
	Ascending   bool
	Limit       int
	Offset      int
}

type CategoryService interface {
	ListCategories(opts CategoryListOptions) ([]model.Category, int64, error)
	GetTree() ([]model.Category, error)
	GetSimpleList() ([]model.Category, error)
	GetStats() (*repository.CategoryStats, error)
	GetCategoryByID(id uuid.UUID) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(input CreateCategoryInput) (*model.Category, error)
	UpdateCategory(id uuid.UUID, input UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
	RestoreCategory(id uuid.UUID) (*model.Category, error)
	BulkDeleteCategories(ids []uuid.UUID) *BulkOperationResult
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(opts CategoryListOptions) ([]model.Category, int64, error) {
	visibility := repository.VisibilityDefault
	if opts.DeletedOnly {
		visibility = repository.VisibilityDeletedOnly
	} else if opts.WithDeleted {
		visibility = repository.VisibilityAll
	}

	return s.categoryRepo.FindWithFilter(repository.CategoryFilter{
		ParentID:   opts.ParentID,
		RootsOnly:  opts.RootsOnly,
		IsActive:   opts.IsActive,
		Search:     opts.Search,
		Visibility: visibility,
		SortBy:     opts.SortBy,
		Ascending:  opts.Ascending,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

func (s *categoryService) GetTree() ([]model.Category, error) {
	return s.categoryRepo.FindRootsWithChildren()
}

func (s *categoryService) GetSimpleList() ([]model.Category, error) {
	return s.categoryRepo.FindActiveSimple()
}

func (s *categoryService) GetStats() (*repository.CategoryStats, error) {
	return s.categoryRepo.Stats()
}

func (s *categoryService) GetCategoryByID(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) resolveSlug(name, slug string, excludeID *uuid.UUID) (string, error) {
	if slug == "" {
		slug = util.Slugify(name)
	} else {
		slug = util.Slugify(slug)
	}

	count, err := s.categoryRepo.CountBySlug(slug, excludeID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrCategorySlugExists
	}
	return slug, nil
}

func (s *categoryService) CreateCategory(input CreateCategoryInput) (*model.Category, error) {
	slug, err := s.resolveSlug(input.Name, input.Slug, nil)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(*input.ParentID, repository.VisibilityDefault); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}

	category := &model.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Image:       input.Image,
		ParentID:    input.ParentID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

// isDescendant walks the subtree under rootID looking for candidateID.
// Used to reject reparenting a node under one of its own descendants.
func (s *categoryService) isDescendant(rootID, candidateID uuid.UUID) (bool, error) {
	children, err := s.categoryRepo.FindChildren(rootID)
	if err != nil {
		return false, err
	}
	for _, child := range children {
		if child.ID == candidateID {
			return true, nil
		}
		found, err := s.isDescendant(child.ID, candidateID)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func (s *categoryService) validateParent(category *model.Category, parentID uuid.UUID) error {
	if parentID == category.ID {
		return ErrCategorySelfParent
	}
	if _, err := s.categoryRepo.FindByID(parentID, repository.VisibilityDefault); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentNotFound
		}
		return err
	}
	cycle, err := s.isDescendant(category.ID, parentID)
	if err != nil {
		return err
	}
	if cycle {
		return ErrCategoryCycle
	}
	return nil
}

func (s *categoryService) UpdateCategory(id uuid.UUID, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil && util.Slugify(*input.Slug) != category.Slug {
		slug, err := s.resolveSlug(category.Name, *input.Slug, &category.ID)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Image != nil {
		category.Image = *input.Image
	}

	if input.ClearParent {
		category.ParentID = nil
	} else if input.ParentID != nil {
		if err := s.validateParent(category, *input.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
	}

	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory soft deletes the node only. Children keep their parent
// link and simply become orphans until reassigned or the parent is
// restored.
func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}

func (s *categoryService) RestoreCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id, repository.VisibilityAll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !category.DeletedAt.Valid {
		return nil, ErrNotDeleted
	}

	if err := s.categoryRepo.Restore(id); err != nil {
		return nil, err
	}

	logger.Info("Category restored", map[string]interface{}{
		"category_id": id,
	})
	return s.GetCategoryByID(id)
}

func (s *categoryService) BulkDeleteCategories(ids []uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if err := s.DeleteCategory(id); err != nil {
			logger.Warn("Bulk category delete item failed", map[string]interface{}{
				"category_id": id,
				"error":       err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}
