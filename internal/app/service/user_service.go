package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("email already registered")
	ErrPhoneExists       = errors.New("phone already registered")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrRoleInactive      = errors.New("role is not active")
	ErrSelfDeleteBlocked = errors.New("cannot delete own account")
)

type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
	RoleID    uuid.UUID
	Status    *model.UserStatus
}

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Avatar    *string
	BirthDate *time.Time
	Gender    *model.Gender
	Status    *model.UserStatus
	RoleID    *uuid.UUID
	Metadata  map[string]interface{}
}

type UserListOptions struct {
	Status        *model.UserStatus
	RoleID        *uuid.UUID
	Gender        *model.Gender
	EmailVerified *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	DeletedOnly   bool
	WithDeleted   bool
	Search        string
	SortBy        string
	Ascending     bool
	Limit         int
	Offset        int
}

type UserService interface {
	ListUsers(opts UserListOptions) ([]model.User, int64, error)
	GetUserByID(id uuid.UUID) (*model.User, error)
	CreateUser(input CreateUserInput) (*model.User, error)
	UpdateUser(id uuid.UUID, input UpdateUserInput) (*model.User, error)
	ChangePassword(id uuid.UUID, currentPassword, newPassword string) error
	VerifyEmail(id uuid.UUID) (*model.User, error)
	VerifyPhone(id uuid.UUID) (*model.User, error)
	DeleteUser(id uuid.UUID, actorID uuid.UUID) error
	RestoreUser(id uuid.UUID) (*model.User, error)
	BulkUpdateStatus(ids []uuid.UUID, status model.UserStatus) *BulkOperationResult
	BulkDeleteUsers(ids []uuid.UUID, actorID uuid.UUID) *BulkOperationResult
	BulkRestoreUsers(ids []uuid.UUID) *BulkOperationResult
	GetStats() (*repository.UserStats, error)
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *userService) ListUsers(opts UserListOptions) ([]model.User, int64, error) {
	visibility := repository.VisibilityDefault
	if opts.DeletedOnly {
		visibility = repository.VisibilityDeletedOnly
	} else if opts.WithDeleted {
		visibility = repository.VisibilityAll
	}
	return s.userRepo.FindWithFilter(repository.UserFilter{
		Status:        opts.Status,
		RoleID:        opts.RoleID,
		Gender:        opts.Gender,
		EmailVerified: opts.EmailVerified,
		CreatedFrom:   opts.CreatedFrom,
		CreatedTo:     opts.CreatedTo,
		Visibility:    visibility,
		Search:        opts.Search,
		SortBy:        opts.SortBy,
		Ascending:     opts.Ascending,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	})
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) checkEmail(email string, excludeID *uuid.UUID) error {
	count, err := s.userRepo.CountByEmail(email, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}
	return nil
}

func (s *userService) checkPhone(phone string, excludeID *uuid.UUID) error {
	count, err := s.userRepo.CountByPhone(phone, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPhoneExists
	}
	return nil
}

func (s *userService) checkRole(id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	if !role.IsActive {
		return ErrRoleInactive
	}
	return nil
}

func (s *userService) CreateUser(input CreateUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.checkEmail(email, nil); err != nil {
		return nil, err
	}
	if input.Phone != nil && *input.Phone != "" {
		if err := s.checkPhone(*input.Phone, nil); err != nil {
			return nil, err
		}
	}
	if err := s.checkRole(input.RoleID); err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  input.Password, // hashed by the model save hook
		Phone:     input.Phone,
		RoleID:    input.RoleID,
		Status:    model.UserPendingVerification,
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return s.GetUserByID(user.ID)
}

func (s *userService) UpdateUser(id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if err := s.checkEmail(email, &user.ID); err != nil {
				return nil, err
			}
			user.Email = email
			user.EmailVerified = false
			user.EmailVerifiedAt = nil
		}
	}
	if input.Phone != nil {
		phone := *input.Phone
		if user.Phone == nil || phone != *user.Phone {
			if phone != "" {
				if err := s.checkPhone(phone, &user.ID); err != nil {
					return nil, err
				}
				user.Phone = &phone
			} else {
				user.Phone = nil
			}
			user.PhoneVerified = false
			user.PhoneVerifiedAt = nil
		}
	}
	if input.RoleID != nil && *input.RoleID != user.RoleID {
		if err := s.checkRole(*input.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = *input.RoleID
		user.Role = nil
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}
	if input.Gender != nil {
		user.Gender = input.Gender
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Metadata != nil {
		user.Metadata = input.Metadata
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

func (s *userService) ChangePassword(id uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if !user.ValidatePassword(currentPassword) {
		return ErrWrongPassword
	}

	user.Password = newPassword // hashed by the model save hook
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("User password changed", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (s *userService) VerifyEmail(id uuid.UUID) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.EmailVerified = true
	user.EmailVerifiedAt = &now
	if user.Status == model.UserPendingVerification {
		user.Status = model.UserActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPhone marks the user's phone as verified. Unlike email
// verification it never changes the account status.
func (s *userService) VerifyPhone(id uuid.UUID) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.PhoneVerified = true
	user.PhoneVerifiedAt = &now

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(id uuid.UUID, actorID uuid.UUID) error {
	if id == actorID {
		return ErrSelfDeleteBlocked
	}
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"actor_id": actorID,
	})
	return nil
}

func (s *userService) RestoreUser(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id, repository.VisibilityAll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.DeletedAt.Valid {
		return nil, ErrNotDeleted
	}

	if err := s.userRepo.Restore(id); err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

func (s *userService) BulkUpdateStatus(ids []uuid.UUID, status model.UserStatus) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		user, err := s.GetUserByID(id)
		if err != nil {
			result.recordFailure(id)
			continue
		}
		user.Status = status
		if err := s.userRepo.Update(user); err != nil {
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *userService) BulkDeleteUsers(ids []uuid.UUID, actorID uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if err := s.DeleteUser(id, actorID); err != nil {
			logger.Warn("Bulk user delete item failed", map[string]interface{}{
				"user_id": id,
				"error":   err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *userService) BulkRestoreUsers(ids []uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if _, err := s.RestoreUser(id); err != nil {
			logger.Warn("Bulk user restore item failed", map[string]interface{}{
				"user_id": id,
				"error":   err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *userService) GetStats() (*repository.UserStats, error) {
	return s.userRepo.Stats()
}
