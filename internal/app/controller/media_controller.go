package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
	"github.com/ikkim/udonggeum-backend/internal/middleware"
	"github.com/ikkim/udonggeum-backend/pkg/pagination"
)

type MediaController struct {
	mediaService service.MediaService
}

func NewMediaController(mediaService service.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

type UpdateMediaRequest struct {
	Alt   *string          `json:"alt"`
	Title *string          `json:"title"`
	Type  *model.MediaType `json:"type" binding:"omitempty,oneof=general category product avatar"`
}

type PresignUploadRequest struct {
	Filename    string          `json:"filename" binding:"required"`
	ContentType string          `json:"content_type" binding:"required"`
	Type        model.MediaType `json:"type" binding:"omitempty,oneof=general category product avatar"`
}

func (ctrl *MediaController) respondMediaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		apperrors.NotFound(c, apperrors.MediaNotFound, "Media not found")
	case errors.Is(err, service.ErrFileTooLarge):
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "File exceeds the maximum allowed size")
	case errors.Is(err, service.ErrDisallowedFormat):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "File format is not allowed")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "media")
	}
}

// Upload stores a multipart file and records its metadata
// POST /api/v1/admin/media
func (ctrl *MediaController) Upload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.BadRequest(c, apperrors.UploadFailed, "Could not read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.BadRequest(c, apperrors.UploadFailed, "Could not read uploaded file")
		return
	}

	media, err := ctrl.mediaService.Upload(c.Request.Context(), service.UploadMediaInput{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Type:        model.MediaType(c.PostForm("type")),
		Alt:         c.PostForm("alt"),
		Title:       c.PostForm("title"),
	})
	if err != nil {
		ctrl.respondMediaError(c, err)
		return
	}

	log.Info("Media uploaded", map[string]interface{}{
		"media_id": media.ID,
		"size":     media.Size,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"media":   media,
	})
}

// List returns a paginated media listing
// GET /api/v1/admin/media
func (ctrl *MediaController) List(c *gin.Context) {
	params := pagination.Parse(c)

	opts := service.MediaListOptions{
		Search:    params.Search,
		Ascending: params.Ascending(),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	}
	if t := c.Query("type"); t != "" {
		mediaType := model.MediaType(t)
		opts.Type = &mediaType
	}

	media, total, err := ctrl.mediaService.ListMedia(opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "media")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"media":   media,
		"meta":    pagination.NewMeta(total, params),
	})
}

// Get returns a single media record
// GET /api/v1/admin/media/:id
func (ctrl *MediaController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	media, err := ctrl.mediaService.GetMediaByID(id)
	if err != nil {
		ctrl.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"media":   media,
	})
}

// Update modifies a media record's descriptive fields
// PUT /api/v1/admin/media/:id
func (ctrl *MediaController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid media payload")
		return
	}

	media, err := ctrl.mediaService.UpdateMedia(id, service.UpdateMediaInput{
		Alt:   req.Alt,
		Title: req.Title,
		Type:  req.Type,
	})
	if err != nil {
		ctrl.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"media":   media,
	})
}

// Delete removes the record and best effort removes the stored blob
// DELETE /api/v1/admin/media/:id
func (ctrl *MediaController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.mediaService.DeleteMedia(c.Request.Context(), id); err != nil {
		ctrl.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Media deleted",
	})
}

// BulkDelete removes several media records and their blobs, best effort
// POST /api/v1/admin/media/bulk-delete
func (ctrl *MediaController) BulkDelete(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	result := ctrl.mediaService.BulkDeleteMedia(c.Request.Context(), req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// Stats returns storage aggregates grouped by media type
// GET /api/v1/admin/media/stats
func (ctrl *MediaController) Stats(c *gin.Context) {
	stats, err := ctrl.mediaService.GetStats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "media")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// Presign returns a URL for a direct client upload
// POST /api/v1/admin/media/presign
func (ctrl *MediaController) Presign(c *gin.Context) {
	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content_type are required")
		return
	}

	presigned, err := ctrl.mediaService.PresignUpload(req.Filename, req.ContentType, req.Type)
	if err != nil {
		ctrl.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"upload":  presigned,
	})
}
