package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/udonggeum-backend/config"
	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/db"
	"github.com/ikkim/udonggeum-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, &config.JWTConfig{
		Secret:             "test-jwt-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})

	return authService, testDB
}

func seedAuthUser(t *testing.T, testDB *gorm.DB, email, roleName string, status model.UserStatus) *model.User {
	t.Helper()

	permission := model.Permission{Name: "products.read", Module: "products", Action: "read", IsActive: true}
	require.NoError(t, testDB.Where("name = ?", permission.Name).FirstOrCreate(&permission).Error)

	role := model.Role{Name: roleName, DisplayName: roleName, IsActive: true}
	err := testDB.Where("name = ?", roleName).FirstOrCreate(&role).Error
	require.NoError(t, err)
	require.NoError(t, testDB.Model(&role).Association("Permissions").Replace([]model.Permission{permission}))

	user := &model.User{
		FirstName: "Auth",
		LastName:  "Tester",
		Email:     email,
		Password:  "password123",
		Status:    status,
		RoleID:    role.ID,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	seedAuthUser(t, testDB, "admin@example.com", "admin", model.UserActive)
	seedAuthUser(t, testDB, "customer@example.com", "customer", model.UserActive)
	seedAuthUser(t, testDB, "frozen@example.com", "super_admin", model.UserSuspended)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid admin login",
			email:    "admin@example.com",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Email is case folded",
			email:    "ADMIN@example.com",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    "admin@example.com",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown email",
			email:    "nobody@example.com",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Non-admin role denied",
			email:    "customer@example.com",
			password: "password123",
			wantErr:  ErrAccessDenied,
		},
		{
			name:     "Suspended account denied",
			email:    "frozen@example.com",
			password: "password123",
			wantErr:  ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password, "127.0.0.1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
				assert.NotNil(t, user.LastLoginAt)

				claims, err := util.ValidateToken(tokens.AccessToken, "test-jwt-secret")
				require.NoError(t, err)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, "admin", claims.Role)
				assert.Contains(t, claims.Permissions, "products.read")
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user := seedAuthUser(t, testDB, "refresh@example.com", "admin", model.UserActive)

	_, tokens, err := authService.Login("refresh@example.com", "password123", "127.0.0.1")
	require.NoError(t, err)

	t.Run("Valid refresh", func(t *testing.T) {
		fresh, err := authService.RefreshToken(tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
		assert.NotEmpty(t, fresh.RefreshToken)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := authService.RefreshToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("Deactivated account stops refreshing", func(t *testing.T) {
		require.NoError(t, testDB.Model(user).Update("status", model.UserSuspended).Error)

		_, err := authService.RefreshToken(tokens.RefreshToken)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestAuthService_Logout(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	seedAuthUser(t, testDB, "logout@example.com", "admin", model.UserActive)
	_, tokens, err := authService.Login("logout@example.com", "password123", "127.0.0.1")
	require.NoError(t, err)

	// Without Redis configured, logout is a no-op but never an error.
	assert.NoError(t, authService.Logout(context.Background(), tokens.AccessToken))
	assert.NoError(t, authService.Logout(context.Background(), "garbage"))
}

func TestAuthService_GetProfile(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user := seedAuthUser(t, testDB, "profile@example.com", "admin", model.UserActive)

	profile, err := authService.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile@example.com", profile.Email)
	require.NotNil(t, profile.Role)
	assert.Equal(t, "admin", profile.Role.Name)
}
