package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/udonggeum-backend/pkg/util"
)

const testSecret = "middleware-test-secret"

func setupGateRouter(t *testing.T, gates ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(testSecret)
	router := gin.New()

	handlers := []gin.HandlerFunc{m.Authenticate()}
	handlers = append(handlers, gates...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/protected", handlers...)
	return router
}

func issueToken(t *testing.T, role string, permissions []string) string {
	t.Helper()
	pair, err := util.GenerateTokenPair(uuid.New(), "admin@example.com", role, permissions, testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

func requestWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := setupGateRouter(t)

	t.Run("Missing header", func(t *testing.T) {
		w := requestWithToken(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed token", func(t *testing.T) {
		w := requestWithToken(router, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		pair, err := util.GenerateTokenPair(uuid.New(), "x@example.com", "admin", nil, "other-secret", time.Minute, time.Hour)
		require.NoError(t, err)
		w := requestWithToken(router, pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid token passes and sets identity", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		identity := gin.New()
		identity.GET("/protected", m.Authenticate(), func(c *gin.Context) {
			id, ok := GetUserID(c)
			assert.True(t, ok)
			assert.NotEqual(t, uuid.Nil, id)
			assert.Equal(t, "admin", c.GetString(UserRoleKey))
			c.Status(http.StatusOK)
		})
		w := requestWithToken(identity, issueToken(t, "admin", []string{"users.read"}))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := setupGateRouter(t, m.RequireRole("admin", "super_admin"))

	t.Run("Allowed role", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "admin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Disallowed role", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "customer", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := setupGateRouter(t, m.RequirePermission("products.update"))

	t.Run("Has permission", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "admin", []string{"products.read", "products.update"}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Missing permission", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "admin", []string{"products.read"}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Exact match only", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "admin", []string{"products.*", "Products.Update"}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireAnyPermission(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	router := setupGateRouter(t, m.RequireAnyPermission("roles.read", "roles.update"))

	t.Run("One of several is enough", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "admin", []string{"roles.update"}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("None present", func(t *testing.T) {
		w := requestWithToken(router, issueToken(t, "admin", []string{"users.read"}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
