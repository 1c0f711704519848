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

type RoleController struct {
	roleService service.RoleService
}

func NewRoleController(roleService service.RoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

type CreateRoleRequest struct {
	Name          string      `json:"name" binding:"required,min=1,max=100"`
	DisplayName   string      `json:"display_name"`
	Description   string      `json:"description"`
	IsActive      *bool       `json:"is_active"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type AssignPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids" binding:"required"`
}

func (ctrl *RoleController) respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		apperrors.NotFound(c, apperrors.RoleNotFound, "Role not found")
	case errors.Is(err, service.ErrRoleExists):
		apperrors.Conflict(c, apperrors.RoleNameExists, "Role with this name already exists")
	case errors.Is(err, service.ErrSystemRoleProtected):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzSystemRoleProtected, "System roles cannot be modified or deleted")
	case errors.Is(err, service.ErrRoleInUse):
		apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "Role is assigned to users and cannot be deleted")
	case errors.Is(err, service.ErrUnknownPermissions):
		apperrors.BadRequest(c, apperrors.RoleInvalidPermissions, "One or more permissions do not exist")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "role")
	}
}

// List returns a paginated role listing with permissions preloaded
// GET /api/v1/admin/roles
func (ctrl *RoleController) List(c *gin.Context) {
	params := pagination.Parse(c)

	roles, total, err := ctrl.roleService.ListRoles(service.RoleListOptions{
		IsActive:  boolQuery(c, "is_active"),
		IsSystem:  boolQuery(c, "is_system"),
		Search:    params.Search,
		SortBy:    params.SortBy,
		Ascending: params.Ascending(),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	})
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"roles":   roles,
		"meta":    pagination.NewMeta(total, params),
	})
}

// Simple returns active roles trimmed down for pickers
// GET /api/v1/admin/roles/simple
func (ctrl *RoleController) Simple(c *gin.Context) {
	roles, err := ctrl.roleService.GetSimpleList()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"roles":   roles,
	})
}

// Stats returns role aggregate counts
// GET /api/v1/admin/roles/stats
func (ctrl *RoleController) Stats(c *gin.Context) {
	stats, err := ctrl.roleService.GetStats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// Get returns a single role with its permissions
// GET /api/v1/admin/roles/:id
func (ctrl *RoleController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	role, err := ctrl.roleService.GetRoleByID(id)
	if err != nil {
		ctrl.respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    role,
	})
}

// Create adds a role, optionally with an initial permission set
// POST /api/v1/admin/roles
func (ctrl *RoleController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Role name is required")
		return
	}

	role, err := ctrl.roleService.CreateRole(service.CreateRoleInput{
		Name:          req.Name,
		DisplayName:   req.DisplayName,
		Description:   req.Description,
		IsActive:      req.IsActive,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		ctrl.respondRoleError(c, err)
		return
	}

	log.Info("Role created", map[string]interface{}{
		"role_id": role.ID,
		"name":    role.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"role":    role,
	})
}

// Update modifies a non-system role
// PUT /api/v1/admin/roles/:id
func (ctrl *RoleController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid role payload")
		return
	}

	role, err := ctrl.roleService.UpdateRole(id, service.UpdateRoleInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		ctrl.respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    role,
	})
}

// AssignPermissions replaces the role's permission set
// PUT /api/v1/admin/roles/:id/permissions
func (ctrl *RoleController) AssignPermissions(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A permission_ids list is required")
		return
	}

	role, err := ctrl.roleService.AssignPermissions(id, req.PermissionIDs)
	if err != nil {
		ctrl.respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    role,
	})
}

// Delete removes an unused non-system role
// DELETE /api/v1/admin/roles/:id
func (ctrl *RoleController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.roleService.DeleteRole(id); err != nil {
		ctrl.respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role deleted",
	})
}
