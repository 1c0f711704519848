package repository

import (
	"fmt"
	"time"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserFilter struct {
	Status        *model.UserStatus
	RoleID        *uuid.UUID
	Gender        *model.Gender
	EmailVerified *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Search        string
	Visibility    Visibility
	SortBy        string
	Ascending     bool
	Limit         int
	Offset        int
}

// UserStats is the aggregate snapshot for the admin dashboard.
type UserStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Suspended int64 `json:"suspended"`
	Pending   int64 `json:"pending"`
	Verified  int64 `json:"verified"`
	Deleted   int64 `json:"deleted"`
}

type UserRepository interface {
	Create(user *model.User) error
	FindWithFilter(filter UserFilter) ([]model.User, int64, error)
	FindByID(id uuid.UUID, visibility Visibility) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByPhone(phone string) (*model.User, error)
	CountByEmail(email string, excludeID *uuid.UUID) (int64, error)
	CountByPhone(phone string, excludeID *uuid.UUID) (int64, error)
	Update(user *model.User) error
	UpdateLastLogin(id uuid.UUID, at time.Time, ip string) error
	Delete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	Stats() (*UserStats, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user", map[string]interface{}{
		"email":   user.Email,
		"role_id": user.RoleID,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindWithFilter(filter UserFilter) ([]model.User, int64, error) {
	query := applyVisibility(r.db.Model(&model.User{}), filter.Visibility)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RoleID != nil {
		query = query.Where("role_id = ?", *filter.RoleID)
	}
	if filter.Gender != nil {
		query = query.Where("gender = ?", *filter.Gender)
	}
	if filter.EmailVerified != nil {
		query = query.Where("email_verified = ?", *filter.EmailVerified)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order(sortBy + " " + direction)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var users []model.User
	if err := query.Preload("Role.Permissions").Find(&users).Error; err != nil {
		logger.Error("Failed to find users with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) FindByID(id uuid.UUID, visibility Visibility) (*model.User, error) {
	var user model.User
	query := applyVisibility(r.db.Preload("Role.Permissions"), visibility)
	if err := query.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role.Permissions").First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role.Permissions").First(&user, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountByEmail counts across live and deleted users; a removed account
// keeps its email reserved.
func (r *userRepository) CountByEmail(email string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.User{}).Where("email = ?", email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *userRepository) CountByPhone(phone string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.User{}).Where("phone = ?", phone)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Omit("Role").Save(user).Error; err != nil {
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(id uuid.UUID, at time.Time, ip string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"last_login_ip": ip,
		}).Error
}

func (r *userRepository) Delete(id uuid.UUID) error {
	logger.Debug("Soft deleting user", map[string]interface{}{
		"user_id": id,
	})
	return r.db.Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepository) Restore(id uuid.UUID) error {
	return r.db.Unscoped().Model(&model.User{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *userRepository) Stats() (*UserStats, error) {
	stats := &UserStats{}

	if err := r.db.Model(&model.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status model.UserStatus
		Count  int64
	}
	err := r.db.Model(&model.User{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		switch row.Status {
		case model.UserActive:
			stats.Active = row.Count
		case model.UserInactive:
			stats.Inactive = row.Count
		case model.UserSuspended:
			stats.Suspended = row.Count
		case model.UserPendingVerification:
			stats.Pending = row.Count
		}
	}

	if err := r.db.Model(&model.User{}).Where("email_verified = ?", true).Count(&stats.Verified).Error; err != nil {
		return nil, err
	}
	err = r.db.Unscoped().Model(&model.User{}).
		Where("deleted_at IS NOT NULL").
		Count(&stats.Deleted).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
