package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ikkim/udonggeum-backend/config"
	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/app/service"
	"github.com/ikkim/udonggeum-backend/internal/db"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, &config.JWTConfig{
		Secret:             "test-jwt-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", authController.Login)

	return authController, router, testDB
}

func seedAdminUser(t *testing.T, testDB *gorm.DB, email, roleName string) {
	t.Helper()

	role := model.Role{Name: roleName, DisplayName: roleName, IsActive: true}
	require.NoError(t, testDB.Where("name = ?", roleName).FirstOrCreate(&role).Error)

	user := &model.User{
		FirstName: "Login",
		LastName:  "Tester",
		Email:     email,
		Password:  "password123",
		Status:    model.UserActive,
		RoleID:    role.ID,
	}
	require.NoError(t, testDB.Create(user).Error)
}

func postLogin(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Login_Success(t *testing.T) {
	_, router, testDB := setupAuthControllerTest(t)
	seedAdminUser(t, testDB, "admin@example.com", "admin")

	w := postLogin(router, "admin@example.com", "password123")

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "admin@example.com", response.User.Email)
	assert.NotEmpty(t, response.Tokens.AccessToken)
	assert.NotEmpty(t, response.Tokens.RefreshToken)
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	_, router, testDB := setupAuthControllerTest(t)
	seedAdminUser(t, testDB, "admin@example.com", "admin")

	w := postLogin(router, "admin@example.com", "wrong-password")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", response.Error)
}

func TestAuthController_Login_NonAdminRole(t *testing.T) {
	_, router, testDB := setupAuthControllerTest(t)
	seedAdminUser(t, testDB, "customer@example.com", "customer")

	w := postLogin(router, "customer@example.com", "password123")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthController_Login_MissingFields(t *testing.T) {
	_, router, _ := setupAuthControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{"email":"admin@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
