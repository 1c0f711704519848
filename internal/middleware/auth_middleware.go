package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ikkim/udonggeum-backend/internal/errors"
	"github.com/ikkim/udonggeum-backend/pkg/redis"
	"github.com/ikkim/udonggeum-backend/pkg/util"
)

// Context keys for the authenticated identity
const (
	UserIDKey          = "user_id"
	UserEmailKey       = "user_email"
	UserRoleKey        = "user_role"
	UserPermissionsKey = "user_permissions"
	AccessTokenKey     = "access_token"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the bearer token, rejects revoked tokens, and
// places the token's identity claims in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session expired, please sign in again")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		blacklisted, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token blacklist check failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if blacklisted {
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(UserPermissionsKey, claims.Permissions)
		c.Set(AccessTokenKey, token)

		c.Next()
	}
}

// RequireRole allows only the named roles past. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if !allowed[role] {
			GetLoggerFromContext(c).Warn("Role check failed", map[string]interface{}{
				"path": c.Request.URL.Path,
				"role": role,
			})
			errors.Forbidden(c, "Your role does not allow this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

func permissionsFromContext(c *gin.Context) []string {
	value, exists := c.Get(UserPermissionsKey)
	if !exists {
		return nil
	}
	permissions, ok := value.([]string)
	if !ok {
		return nil
	}
	return permissions
}

func hasPermission(permissions []string, name string) bool {
	for _, p := range permissions {
		if p == name {
			return true
		}
	}
	return false
}

// RequirePermission allows the request only when the token carries the
// named permission. Matching is exact and case-sensitive; there is no
// wildcard expansion.
func (m *AuthMiddleware) RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions := permissionsFromContext(c)
		if !hasPermission(permissions, name) {
			GetLoggerFromContext(c).Warn("Permission check failed", map[string]interface{}{
				"path":       c.Request.URL.Path,
				"permission": name,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzPermissionDenied, "Missing required permission")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnyPermission allows the request when the token carries at least
// one of the named permissions.
func (m *AuthMiddleware) RequireAnyPermission(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions := permissionsFromContext(c)
		for _, name := range names {
			if hasPermission(permissions, name) {
				c.Next()
				return
			}
		}
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzPermissionDenied, "Missing required permission")
		c.Abort()
	}
}

// GetUserID returns the authenticated user's ID from the context.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
