package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/udonggeum-backend/config"
	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/ikkim/udonggeum-backend/pkg/redis"
	"github.com/ikkim/udonggeum-backend/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrAccessDenied       = errors.New("account role has no admin access")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// adminRoles are the role names allowed to sign in to the admin panel.
var adminRoles = map[string]bool{
	string(model.RoleAdmin):      true,
	string(model.RoleSuperAdmin): true,
}

type AuthService interface {
	Login(email, password, ip string) (*model.User, *util.TokenPair, error)
	RefreshToken(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	GetProfile(userID uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtConfig *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtConfig *config.JWTConfig) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
	}
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	roleName := ""
	var permissions []string
	if user.Role != nil {
		roleName = user.Role.Name
		permissions = user.Role.PermissionNames()
	}
	return util.GenerateTokenPair(
		user.ID,
		user.Email,
		roleName,
		permissions,
		s.jwtConfig.Secret,
		s.jwtConfig.AccessTokenExpiry,
		s.jwtConfig.RefreshTokenExpiry,
	)
}

// Login authenticates an admin panel account. The password check runs
// even for unknown emails so response timing does not leak which emails
// exist.
func (s *authService) Login(email, password, ip string) (*model.User, *util.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.VerifyPassword("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva", password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.ValidatePassword(password) {
		logger.Warn("Login failed, wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != model.UserActive {
		return nil, nil, ErrAccountInactive
	}
	if user.Role == nil || !user.Role.IsActive || !adminRoles[user.Role.Name] {
		return nil, nil, ErrAccessDenied
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now, ip); err != nil {
		logger.Warn("Failed to record last login", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}
	user.LastLoginAt = &now
	user.LastLoginIP = ip

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The user
// is reloaded so revoked roles or deactivated accounts stop refreshing
// immediately.
func (s *authService) RefreshToken(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtConfig.Secret)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(claims.UserID, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if user.Status != model.UserActive {
		return nil, ErrAccountInactive
	}
	if user.Role == nil || !user.Role.IsActive || !adminRoles[user.Role.Name] {
		return nil, ErrAccessDenied
	}

	return s.issueTokens(user)
}

// Logout blacklists the access token for the remainder of its lifetime.
// Without a running Redis this is a no-op and the token simply expires.
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := util.ValidateToken(accessToken, s.jwtConfig.Secret)
	if err != nil {
		// Already invalid, nothing to revoke.
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	if err := redis.BlacklistToken(ctx, accessToken, remaining); err != nil {
		logger.Warn("Failed to blacklist token", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetProfile(userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
