package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/udonggeum-backend/internal/db"
	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check reports liveness and database connectivity
// GET /health
func (ctrl *HealthController) Check(c *gin.Context) {
	if err := db.Ping(); err != nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.ServiceUnavailable, "Database is unreachable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Bazarino API is running",
	})
}

// Database reports database connectivity on its own
// GET /health/db
func (ctrl *HealthController) Database(c *gin.Context) {
	if err := db.Ping(); err != nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.ServiceUnavailable, "Database is unreachable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
