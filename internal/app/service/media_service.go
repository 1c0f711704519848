package service

import (
	"context"
	"errors"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/storage"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrDisallowedFormat = errors.New("file format is not allowed")
)

// allowedImageTypes are the only formats accepted for uploads.
var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
}

type UploadMediaInput struct {
	Data        []byte
	Filename    string
	ContentType string
	Type        model.MediaType
	Alt         string
	Title       string
}

type UpdateMediaInput struct {
	Alt   *string
	Title *string
	Type  *model.MediaType
}

type MediaListOptions struct {
	Type      *model.MediaType
	Search    string
	Ascending bool
	Limit     int
	Offset    int
}

type MediaService interface {
	Upload(ctx context.Context, input UploadMediaInput) (*model.Media, error)
	ListMedia(opts MediaListOptions) ([]model.Media, int64, error)
	GetMediaByID(id uuid.UUID) (*model.Media, error)
	UpdateMedia(id uuid.UUID, input UpdateMediaInput) (*model.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
	BulkDeleteMedia(ctx context.Context, ids []uuid.UUID) *BulkOperationResult
	GetStats() (*repository.MediaStats, error)
	PresignUpload(filename, contentType string, mediaType model.MediaType) (*storage.PresignedURLResponse, error)
}

type mediaService struct {
	mediaRepo   repository.MediaRepository
	uploader    storage.Uploader
	maxFileSize int64
}

func NewMediaService(mediaRepo repository.MediaRepository, uploader storage.Uploader, maxFileSize int64) MediaService {
	return &mediaService{
		mediaRepo:   mediaRepo,
		uploader:    uploader,
		maxFileSize: maxFileSize,
	}
}

func mediaFolder(t model.MediaType) string {
	switch t {
	case model.MediaCategory:
		return "categories"
	case model.MediaProduct:
		return "products"
	case model.MediaAvatar:
		return "avatars"
	default:
		return "uploads"
	}
}

func (s *mediaService) Upload(ctx context.Context, input UploadMediaInput) (*model.Media, error) {
	size := int64(len(input.Data))
	if err := s.uploader.ValidateFileSize(size, s.maxFileSize); err != nil {
		return nil, ErrFileTooLarge
	}
	if err := s.uploader.ValidateContentType(input.ContentType, allowedImageTypes); err != nil {
		return nil, ErrDisallowedFormat
	}

	mediaType := input.Type
	if mediaType == "" {
		mediaType = model.MediaGeneral
	}

	result, err := s.uploader.Upload(ctx, input.Data, input.Filename, input.ContentType, mediaFolder(mediaType))
	if err != nil {
		logger.Error("Failed to upload media blob", err, map[string]interface{}{
			"filename": input.Filename,
		})
		return nil, err
	}

	media := &model.Media{
		OriginalName: input.Filename,
		StoredName:   result.StoredName,
		MimeType:     input.ContentType,
		Size:         size,
		Type:         mediaType,
		Path:         result.Key,
		URL:          result.URL,
		Alt:          input.Alt,
		Title:        input.Title,
	}
	if err := s.mediaRepo.Create(media); err != nil {
		// Best effort cleanup of the orphaned blob.
		if removeErr := s.uploader.Remove(ctx, result.Key); removeErr != nil {
			logger.Warn("Failed to remove orphaned blob", map[string]interface{}{
				"key":   result.Key,
				"error": removeErr.Error(),
			})
		}
		return nil, err
	}

	logger.Info("Media uploaded", map[string]interface{}{
		"media_id": media.ID,
		"type":     media.Type,
		"size":     media.Size,
	})
	return media, nil
}

func (s *mediaService) ListMedia(opts MediaListOptions) ([]model.Media, int64, error) {
	return s.mediaRepo.FindWithFilter(repository.MediaFilter{
		Type:      opts.Type,
		Search:    opts.Search,
		Ascending: opts.Ascending,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
}

func (s *mediaService) GetMediaByID(id uuid.UUID) (*model.Media, error) {
	media, err := s.mediaRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return media, nil
}

func (s *mediaService) UpdateMedia(id uuid.UUID, input UpdateMediaInput) (*model.Media, error) {
	media, err := s.GetMediaByID(id)
	if err != nil {
		return nil, err
	}

	if input.Alt != nil {
		media.Alt = *input.Alt
	}
	if input.Title != nil {
		media.Title = *input.Title
	}
	if input.Type != nil {
		media.Type = *input.Type
	}

	if err := s.mediaRepo.Update(media); err != nil {
		return nil, err
	}
	return media, nil
}

// DeleteMedia removes the record first, then the blob. A failed blob
// delete is logged but not surfaced; the record is already gone.
func (s *mediaService) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	media, err := s.GetMediaByID(id)
	if err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(id); err != nil {
		return err
	}
	if err := s.uploader.Remove(ctx, media.Path); err != nil {
		logger.Warn("Failed to remove media blob", map[string]interface{}{
			"media_id": id,
			"key":      media.Path,
			"error":    err.Error(),
		})
	}

	logger.Info("Media deleted", map[string]interface{}{
		"media_id": id,
	})
	return nil
}

func (s *mediaService) BulkDeleteMedia(ctx context.Context, ids []uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if err := s.DeleteMedia(ctx, id); err != nil {
			logger.Warn("Bulk media delete item failed", map[string]interface{}{
				"media_id": id,
				"error":    err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *mediaService) GetStats() (*repository.MediaStats, error) {
	return s.mediaRepo.Stats()
}

func (s *mediaService) PresignUpload(filename, contentType string, mediaType model.MediaType) (*storage.PresignedURLResponse, error) {
	if err := s.uploader.ValidateContentType(contentType, allowedImageTypes); err != nil {
		return nil, ErrDisallowedFormat
	}
	if mediaType == "" {
		mediaType = model.MediaGeneral
	}
	return s.uploader.GeneratePresignedURL(filename, contentType, mediaFolder(mediaType))
}
