package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
	"github.com/ikkim/udonggeum-backend/internal/middleware"
	"github.com/ikkim/udonggeum-backend/pkg/pagination"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

type CreateUserRequest struct {
	FirstName string            `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string            `json:"last_name" binding:"required,min=1,max=100"`
	Email     string            `json:"email" binding:"required,email"`
	Password  string            `json:"password" binding:"required,min=8"`
	Phone     *string           `json:"phone"`
	RoleID    uuid.UUID         `json:"role_id" binding:"required"`
	Status    *model.UserStatus `json:"status" binding:"omitempty,oneof=active inactive suspended pending_verification"`
}

type UpdateUserRequest struct {
	FirstName *string                `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string                `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email     *string                `json:"email" binding:"omitempty,email"`
	Phone     *string                `json:"phone"`
	Avatar    *string                `json:"avatar"`
	BirthDate *time.Time             `json:"birth_date"`
	Gender    *model.Gender          `json:"gender" binding:"omitempty,oneof=male female other"`
	Status    *model.UserStatus      `json:"status" binding:"omitempty,oneof=active inactive suspended pending_verification"`
	RoleID    *uuid.UUID             `json:"role_id"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type BulkUserStatusRequest struct {
	IDs    []uuid.UUID      `json:"ids" binding:"required,min=1"`
	Status model.UserStatus `json:"status" binding:"required,oneof=active inactive suspended pending_verification"`
}

func (ctrl *UserController) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
	case errors.Is(err, service.ErrEmailExists):
		apperrors.Conflict(c, apperrors.UserEmailExists, "Email is already registered")
	case errors.Is(err, service.ErrPhoneExists):
		apperrors.Conflict(c, apperrors.UserPhoneExists, "Phone is already registered")
	case errors.Is(err, service.ErrRoleNotFound):
		apperrors.BadRequest(c, apperrors.UserInvalidRole, "Role does not exist")
	case errors.Is(err, service.ErrRoleInactive):
		apperrors.BadRequest(c, apperrors.UserInvalidRole, "Role is not active")
	case errors.Is(err, service.ErrWrongPassword):
		apperrors.BadRequest(c, apperrors.UserWrongPassword, "Current password is incorrect")
	case errors.Is(err, service.ErrSelfDeleteBlocked):
		apperrors.Forbidden(c, "You cannot delete your own account")
	case errors.Is(err, service.ErrNotDeleted):
		apperrors.BadRequest(c, apperrors.ResourceNotDeleted, "User is not deleted")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "user")
	}
}

// List returns a paginated user listing
// GET /api/v1/admin/users
func (ctrl *UserController) List(c *gin.Context) {
	params := pagination.Parse(c)

	opts := service.UserListOptions{
		Search:        params.Search,
		EmailVerified: boolQuery(c, "verified"),
		DeletedOnly:   c.Query("deleted") == "true",
		WithDeleted:   c.Query("with_deleted") == "true",
		SortBy:        params.SortBy,
		Ascending:     params.Ascending(),
		Limit:         params.Limit,
		Offset:        params.Offset(),
	}
	if status := c.Query("status"); status != "" {
		s := model.UserStatus(status)
		opts.Status = &s
	}
	if gender := c.Query("gender"); gender != "" {
		g := model.Gender(gender)
		opts.Gender = &g
	}
	if role := c.Query("role_id"); role != "" {
		roleID, err := uuid.Parse(role)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid role_id parameter")
			return
		}
		opts.RoleID = &roleID
	}
	var ok bool
	if opts.CreatedFrom, ok = timeQuery(c, "created_from"); !ok {
		return
	}
	if opts.CreatedTo, ok = timeQuery(c, "created_to"); !ok {
		return
	}

	users, total, err := ctrl.userService.ListUsers(opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"meta":    pagination.NewMeta(total, params),
	})
}

// Get returns a single user with role and permissions
// GET /api/v1/admin/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUserByID(id)
	if err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// Create adds a user
// POST /api/v1/admin/users
func (ctrl *UserController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "First name, last name, email, password and role_id are required")
		return
	}

	user, err := ctrl.userService.CreateUser(service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		RoleID:    req.RoleID,
		Status:    req.Status,
	})
	if err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	log.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}

// Update modifies a user
// PUT /api/v1/admin/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user payload")
		return
	}

	user, err := ctrl.userService.UpdateUser(id, service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		Status:    req.Status,
		RoleID:    req.RoleID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// ChangePassword verifies the current password and sets a new one
// PUT /api/v1/admin/users/:id/password
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Current and new passwords are required, minimum 8 characters")
		return
	}

	if err := ctrl.userService.ChangePassword(id, req.CurrentPassword, req.NewPassword); err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed",
	})
}

// VerifyEmail marks the user's email verified
// POST /api/v1/admin/users/:id/verify-email
func (ctrl *UserController) VerifyEmail(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.VerifyEmail(id)
	if err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// VerifyPhone marks the user's phone verified
// POST /api/v1/admin/users/:id/verify-phone
func (ctrl *UserController) VerifyPhone(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.VerifyPhone(id)
	if err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// Delete soft deletes a user, self deletion is refused
// DELETE /api/v1/admin/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.userService.DeleteUser(id, actorID); err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}

// Restore brings back a soft deleted user
// POST /api/v1/admin/users/:id/restore
func (ctrl *UserController) Restore(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.RestoreUser(id)
	if err != nil {
		ctrl.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// BulkUpdateStatus sets the status on several users, best effort
// POST /api/v1/admin/users/bulk-status
func (ctrl *UserController) BulkUpdateStatus(c *gin.Context) {
	var req BulkUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list and a valid status are required")
		return
	}

	result := ctrl.userService.BulkUpdateStatus(req.IDs, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// BulkDelete soft deletes several users, best effort
// POST /api/v1/admin/users/bulk-delete
func (ctrl *UserController) BulkDelete(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	actorID, _ := middleware.GetUserID(c)
	result := ctrl.userService.BulkDeleteUsers(req.IDs, actorID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// BulkRestore brings back several soft deleted users, best effort
// POST /api/v1/admin/users/bulk-restore
func (ctrl *UserController) BulkRestore(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	result := ctrl.userService.BulkRestoreUsers(req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// Stats returns user aggregate counts
// GET /api/v1/admin/users/stats
func (ctrl *UserController) Stats(c *gin.Context) {
	stats, err := ctrl.userService.GetStats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
