package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
)

// parseUUIDParam reads a path parameter as a UUID, responding with a
// validation error on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// boolQuery reads an optional boolean query parameter, returning nil when
// it is absent.
func boolQuery(c *gin.Context, name string) *bool {
	value, exists := c.GetQuery(name)
	if !exists {
		return nil
	}
	b := value == "true" || value == "1"
	return &b
}

// timeQuery reads an optional timestamp query parameter. Both RFC 3339
// and plain dates are accepted. The second return is false only when a
// value was present but unparseable.
func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	value, exists := c.GetQuery(name)
	if !exists || value == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, true
		}
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid "+name+" parameter")
	return nil, false
}
