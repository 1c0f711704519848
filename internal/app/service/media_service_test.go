package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/db"
	"github.com/ikkim/udonggeum-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploader keeps blobs in memory so the service can be tested
// without S3.
type fakeUploader struct {
	blobs   map[string][]byte
	removed []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{blobs: map[string][]byte{}}
}

func (f *fakeUploader) Upload(_ context.Context, data []byte, filename, _, folder string) (*storage.UploadResult, error) {
	key := folder + "/" + filename
	f.blobs[key] = data
	return &storage.UploadResult{
		Key:        key,
		StoredName: filename,
		URL:        "https://cdn.example.com/" + key,
	}, nil
}

func (f *fakeUploader) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.blobs, key)
	return nil
}

func (f *fakeUploader) GeneratePresignedURL(filename, _, folder string) (*storage.PresignedURLResponse, error) {
	key := folder + "/" + filename
	return &storage.PresignedURLResponse{
		UploadURL: "https://s3.example.com/put/" + key,
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
	}, nil
}

func (f *fakeUploader) ValidateFileSize(size, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

func (f *fakeUploader) ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}

func setupMediaServiceTest(t *testing.T) (MediaService, *fakeUploader) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	uploader := newFakeUploader()
	mediaRepo := repository.NewMediaRepository(testDB)
	return NewMediaService(mediaRepo, uploader, 1024), uploader
}

func uploadTestMedia(t *testing.T, svc MediaService, filename string) *model.Media {
	t.Helper()
	media, err := svc.Upload(context.Background(), UploadMediaInput{
		Data:        []byte("image-bytes"),
		Filename:    filename,
		ContentType: "image/png",
		Type:        model.MediaProduct,
	})
	require.NoError(t, err)
	return media
}

func TestMediaService_Upload(t *testing.T) {
	svc, uploader := setupMediaServiceTest(t)

	t.Run("Stores blob and metadata", func(t *testing.T) {
		media := uploadTestMedia(t, svc, "mug.png")
		assert.Equal(t, "mug.png", media.OriginalName)
		assert.Equal(t, model.MediaProduct, media.Type)
		assert.Equal(t, "products/mug.png", media.Path)
		assert.Contains(t, uploader.blobs, "products/mug.png")
	})

	t.Run("Oversized file", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Data:        make([]byte, 2048),
			Filename:    "big.png",
			ContentType: "image/png",
		})
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("Disallowed format", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), UploadMediaInput{
			Data:        []byte("x"),
			Filename:    "script.sh",
			ContentType: "application/x-sh",
		})
		assert.ErrorIs(t, err, ErrDisallowedFormat)
	})
}

func TestMediaService_Delete(t *testing.T) {
	svc, uploader := setupMediaServiceTest(t)

	media := uploadTestMedia(t, svc, "tray.png")
	require.NoError(t, svc.DeleteMedia(context.Background(), media.ID))

	assert.Contains(t, uploader.removed, media.Path)
	_, err := svc.GetMediaByID(media.ID)
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestMediaService_BulkDeleteAndStats(t *testing.T) {
	svc, _ := setupMediaServiceTest(t)

	first := uploadTestMedia(t, svc, "a.png")
	second := uploadTestMedia(t, svc, "b.png")

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.ByType[string(model.MediaProduct)].Count)

	result := svc.BulkDeleteMedia(context.Background(), []uuid.UUID{first.ID, second.ID, uuid.New()})
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
}
