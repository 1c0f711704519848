package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/udonggeum-backend/internal/app/service"
	"github.com/ikkim/udonggeum-backend/internal/db"
	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
	"github.com/ikkim/udonggeum-backend/internal/middleware"
	"github.com/ikkim/udonggeum-backend/pkg/pagination"
)

type PermissionController struct {
	permissionService service.PermissionService
}

func NewPermissionController(permissionService service.PermissionService) *PermissionController {
	return &PermissionController{permissionService: permissionService}
}

type CreatePermissionRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Module      string `json:"module"`
	Action      string `json:"action"`
	IsActive    *bool  `json:"is_active"`
}

type UpdatePermissionRequest struct {
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (ctrl *PermissionController) respondPermissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionNotFound):
		apperrors.NotFound(c, apperrors.PermissionNotFound, "Permission not found")
	case errors.Is(err, service.ErrPermissionExists):
		apperrors.Conflict(c, apperrors.PermissionNameExists, "Permission with this name already exists")
	case errors.Is(err, service.ErrPermissionInUse):
		apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "Permission is assigned to roles and cannot be deleted")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "permission")
	}
}

// List returns a paginated permission listing
// GET /api/v1/admin/permissions
func (ctrl *PermissionController) List(c *gin.Context) {
	params := pagination.Parse(c)

	permissions, total, err := ctrl.permissionService.ListPermissions(service.PermissionListOptions{
		Module:    c.Query("module"),
		IsActive:  boolQuery(c, "is_active"),
		Search:    params.Search,
		SortBy:    params.SortBy,
		Ascending: params.Ascending(),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	})
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "permission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"permissions": permissions,
		"meta":        pagination.NewMeta(total, params),
	})
}

// Grouped returns all permissions keyed by module, for admin UIs
// GET /api/v1/admin/permissions/grouped
func (ctrl *PermissionController) Grouped(c *gin.Context) {
	grouped, err := ctrl.permissionService.ListGroupedByModule()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "permission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"permissions": grouped,
	})
}

// Get returns a single permission
// GET /api/v1/admin/permissions/:id
func (ctrl *PermissionController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	permission, err := ctrl.permissionService.GetPermissionByID(id)
	if err != nil {
		ctrl.respondPermissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"permission": permission,
	})
}

// Create adds a permission, from either a full name or module plus action
// POST /api/v1/admin/permissions
func (ctrl *PermissionController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid permission payload")
		return
	}
	if req.Name == "" && (req.Module == "" || req.Action == "") {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Either name or both module and action are required")
		return
	}

	permission, err := ctrl.permissionService.CreatePermission(service.CreatePermissionInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Module:      req.Module,
		Action:      req.Action,
		IsActive:    req.IsActive,
	})
	if err != nil {
		ctrl.respondPermissionError(c, err)
		return
	}

	log.Info("Permission created", map[string]interface{}{
		"permission_id": permission.ID,
		"name":          permission.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"permission": permission,
	})
}

// Update modifies a permission's display fields, identity stays fixed
// PUT /api/v1/admin/permissions/:id
func (ctrl *PermissionController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid permission payload")
		return
	}

	permission, err := ctrl.permissionService.UpdatePermission(id, service.UpdatePermissionInput{
		DisplayName: req.DisplayName,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		ctrl.respondPermissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"permission": permission,
	})
}

// Delete removes a permission not referenced by any role
// DELETE /api/v1/admin/permissions/:id
func (ctrl *PermissionController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.permissionService.DeletePermission(id); err != nil {
		ctrl.respondPermissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Permission deleted",
	})
}

// Seed inserts any missing default permissions
// POST /api/v1/admin/permissions/seed
func (ctrl *PermissionController) Seed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	created, err := ctrl.permissionService.SeedDefaults(db.DefaultPermissions)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "permission")
		return
	}

	log.Info("Default permissions seeded", map[string]interface{}{
		"created": created,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
	})
}
