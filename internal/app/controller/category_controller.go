package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ikkim/udonggeum-backend/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
	"github.com/ikkim/udonggeum-backend/internal/middleware"
	"github.com/ikkim/udonggeum-backend/pkg/pagination"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=255"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsActive    *bool      `json:"is_active"`
	SortOrder   *int       `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
	IsActive    *bool      `json:"is_active"`
	SortOrder   *int       `json:"sort_order"`
}

type BulkIDsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

func (ctrl *CategoryController) respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrCategorySlugExists):
		apperrors.Conflict(c, apperrors.CategorySlugExists, "Category with this slug already exists")
	case errors.Is(err, service.ErrParentNotFound):
		apperrors.BadRequest(c, apperrors.CategoryParentNotFound, "Parent category not found")
	case errors.Is(err, service.ErrCategorySelfParent):
		apperrors.BadRequest(c, apperrors.CategorySelfParent, "Category cannot be its own parent")
	case errors.Is(err, service.ErrCategoryCycle):
		apperrors.BadRequest(c, apperrors.CategoryCircularParent, "Parent change would create a cycle")
	case errors.Is(err, service.ErrNotDeleted):
		apperrors.BadRequest(c, apperrors.ResourceNotDeleted, "Category is not deleted")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
	}
}

// List returns a paginated category listing
// GET /api/v1/admin/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	params := pagination.Parse(c)

	opts := service.CategoryListOptions{
		IsActive:    boolQuery(c, "is_active"),
		Search:      params.Search,
		RootsOnly:   c.Query("roots_only") == "true",
		DeletedOnly: c.Query("deleted") == "true",
		WithDeleted: c.Query("with_deleted") == "true",
		SortBy:      params.SortBy,
		Ascending:   params.Ascending(),
		Limit:       params.Limit,
		Offset:      params.Offset(),
	}
	if parent := c.Query("parent_id"); parent != "" {
		parentID, err := uuid.Parse(parent)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid parent_id parameter")
			return
		}
		opts.ParentID = &parentID
	}

	categories, total, err := ctrl.categoryService.ListCategories(opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
		"meta":       pagination.NewMeta(total, params),
	})
}

// Tree returns root categories with their children
// GET /api/v1/admin/categories/tree
func (ctrl *CategoryController) Tree(c *gin.Context) {
	tree, err := ctrl.categoryService.GetTree()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": tree,
	})
}

// Simple returns active categories trimmed down for pickers
// GET /api/v1/admin/categories/simple
func (ctrl *CategoryController) Simple(c *gin.Context) {
	categories, err := ctrl.categoryService.GetSimpleList()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// Stats returns category aggregate counts
// GET /api/v1/admin/categories/stats
func (ctrl *CategoryController) Stats(c *gin.Context) {
	stats, err := ctrl.categoryService.GetStats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// Get returns a single category
// GET /api/v1/admin/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategoryByID(id)
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// Create adds a category
// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(service.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"category": category,
	})
}

// Update modifies a category
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category payload")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, service.UpdateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// Delete soft deletes a category
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}

// Restore brings back a soft deleted category
// POST /api/v1/admin/categories/:id/restore
func (ctrl *CategoryController) Restore(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.RestoreCategory(id)
	if err != nil {
		ctrl.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// BulkDelete soft deletes several categories, best effort
// POST /api/v1/admin/categories/bulk-delete
func (ctrl *CategoryController) BulkDelete(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	result := ctrl.categoryService.BulkDeleteCategories(req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}
