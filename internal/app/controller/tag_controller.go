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

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type CreateTagRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   *int   `json:"sort_order"`
}

type UpdateTagRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

type AssignTagsRequest struct {
	TagIDs []uuid.UUID `json:"tag_ids" binding:"required"`
}

func (ctrl *TagController) respondTagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTagNotFound):
		apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
	case errors.Is(err, service.ErrTagNameExists):
		apperrors.Conflict(c, apperrors.TagNameExists, "Tag with this name already exists")
	case errors.Is(err, service.ErrTagSlugExists):
		apperrors.Conflict(c, apperrors.TagSlugExists, "Tag with this slug already exists")
	case errors.Is(err, service.ErrTagInvalid):
		apperrors.BadRequest(c, apperrors.TagInvalidTags, "One or more tags do not exist or are inactive")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrNotDeleted):
		apperrors.BadRequest(c, apperrors.ResourceNotDeleted, "Tag is not deleted")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tag")
	}
}

// List returns a paginated tag listing
// GET /api/v1/admin/tags
func (ctrl *TagController) List(c *gin.Context) {
	params := pagination.Parse(c)

	tags, total, err := ctrl.tagService.ListTags(service.TagListOptions{
		IsActive:  boolQuery(c, "is_active"),
		Search:    params.Search,
		SortBy:    params.SortBy,
		Ascending: params.Ascending(),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	})
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
		"meta":    pagination.NewMeta(total, params),
	})
}

// Simple returns active tags trimmed down for pickers
// GET /api/v1/admin/tags/simple
func (ctrl *TagController) Simple(c *gin.Context) {
	tags, err := ctrl.tagService.GetSimpleList()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
	})
}

// Stats returns tag aggregate counts
// GET /api/v1/admin/tags/stats
func (ctrl *TagController) Stats(c *gin.Context) {
	stats, err := ctrl.tagService.GetStats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// Get returns a single tag
// GET /api/v1/admin/tags/:id
func (ctrl *TagController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.GetTagByID(id)
	if err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tag":     tag,
	})
}

// Create adds a tag
// POST /api/v1/admin/tags
func (ctrl *TagController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Tag name is required")
		return
	}

	tag, err := ctrl.tagService.CreateTag(service.CreateTagInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	log.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"tag":     tag,
	})
}

// Update modifies a tag
// PUT /api/v1/admin/tags/:id
func (ctrl *TagController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid tag payload")
		return
	}

	tag, err := ctrl.tagService.UpdateTag(id, service.UpdateTagInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tag":     tag,
	})
}

// Delete soft deletes a tag, detaching it from products
// DELETE /api/v1/admin/tags/:id
func (ctrl *TagController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.tagService.DeleteTag(id); err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tag deleted",
	})
}

// Restore brings back a soft deleted tag
// POST /api/v1/admin/tags/:id/restore
func (ctrl *TagController) Restore(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.RestoreTag(id)
	if err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tag":     tag,
	})
}

// BulkDelete soft deletes several tags, best effort
// POST /api/v1/admin/tags/bulk-delete
func (ctrl *TagController) BulkDelete(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	result := ctrl.tagService.BulkDeleteTags(req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// AssignTags replaces a product's tag set
// PUT /api/v1/admin/products/:id/tags
func (ctrl *TagController) AssignTags(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A tag_ids list is required")
		return
	}

	tags, err := ctrl.tagService.AssignTags(productID, req.TagIDs)
	if err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
	})
}

// RemoveTag detaches a single tag from a product
// DELETE /api/v1/admin/products/:id/tags/:tagId
func (ctrl *TagController) RemoveTag(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseUUIDParam(c, "tagId")
	if !ok {
		return
	}

	if err := ctrl.tagService.RemoveTag(productID, tagID); err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tag removed from product",
	})
}

// ProductTags lists the tags attached to a product
// GET /api/v1/admin/products/:id/tags
func (ctrl *TagController) ProductTags(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tags, err := ctrl.tagService.GetProductTags(productID)
	if err != nil {
		ctrl.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
	})
}
