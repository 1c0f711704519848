package service

import (
	"testing"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTagServiceTest(t *testing.T) (TagService, ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	tagRepo := repository.NewTagRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewProductVariantRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)

	tagSvc := NewTagService(tagRepo, productRepo)
	productSvc := NewProductService(productRepo, variantRepo, categoryRepo, tagRepo)
	return tagSvc, productSvc, testDB
}

func createTestTag(t *testing.T, svc TagService, name string) *model.Tag {
	t.Helper()
	tag, err := svc.CreateTag(CreateTagInput{Name: name})
	require.NoError(t, err)
	return tag
}

func TestTagService_CreateTag(t *testing.T) {
	svc, _, _ := setupTagServiceTest(t)

	t.Run("Slug generated from name", func(t *testing.T) {
		tag := createTestTag(t, svc, "New Arrival")
		assert.Equal(t, "new-arrival", tag.Slug)
		assert.True(t, tag.IsActive)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		_, err := svc.CreateTag(CreateTagInput{Name: "New Arrival"})
		assert.ErrorIs(t, err, ErrTagNameExists)
	})

	t.Run("Duplicate slug with different name", func(t *testing.T) {
		_, err := svc.CreateTag(CreateTagInput{Name: "Other", Slug: "new-arrival"})
		assert.ErrorIs(t, err, ErrTagSlugExists)
	})
}

func TestTagService_AssignTags(t *testing.T) {
	tagSvc, productSvc, _ := setupTagServiceTest(t)

	product, err := productSvc.CreateProduct(CreateProductInput{
		Name:  "Teapot",
		SKU:   "TP-001",
		Price: decimal.NewFromInt(90000),
	})
	require.NoError(t, err)

	sale := createTestTag(t, tagSvc, "Sale")
	featured := createTestTag(t, tagSvc, "Featured")

	t.Run("Assignment replaces the set", func(t *testing.T) {
		tags, err := tagSvc.AssignTags(product.ID, []uuid.UUID{sale.ID, featured.ID})
		require.NoError(t, err)
		assert.Len(t, tags, 2)

		tags, err = tagSvc.AssignTags(product.ID, []uuid.UUID{featured.ID})
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, featured.ID, tags[0].ID)

		current, err := tagSvc.GetProductTags(product.ID)
		require.NoError(t, err)
		require.Len(t, current, 1)
		assert.Equal(t, featured.ID, current[0].ID)
	})

	t.Run("Inactive tag fails the whole assignment", func(t *testing.T) {
		inactive := false
		_, err := tagSvc.UpdateTag(sale.ID, UpdateTagInput{IsActive: &inactive})
		require.NoError(t, err)

		_, err = tagSvc.AssignTags(product.ID, []uuid.UUID{sale.ID, featured.ID})
		assert.ErrorIs(t, err, ErrTagInvalid)

		// Previous assignment untouched.
		current, err := tagSvc.GetProductTags(product.ID)
		require.NoError(t, err)
		assert.Len(t, current, 1)
	})

	t.Run("Unknown product", func(t *testing.T) {
		_, err := tagSvc.AssignTags(uuid.New(), []uuid.UUID{featured.ID})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestTagService_RemoveTag(t *testing.T) {
	tagSvc, productSvc, _ := setupTagServiceTest(t)

	product, err := productSvc.CreateProduct(CreateProductInput{
		Name:  "Kettle",
		SKU:   "KT-001",
		Price: decimal.NewFromInt(110000),
	})
	require.NoError(t, err)

	tag := createTestTag(t, tagSvc, "Bestseller")
	_, err = tagSvc.AssignTags(product.ID, []uuid.UUID{tag.ID})
	require.NoError(t, err)

	t.Run("Removes attached tag", func(t *testing.T) {
		require.NoError(t, tagSvc.RemoveTag(product.ID, tag.ID))

		current, err := tagSvc.GetProductTags(product.ID)
		require.NoError(t, err)
		assert.Empty(t, current)
	})

	t.Run("Removing a detached tag is silent", func(t *testing.T) {
		assert.NoError(t, tagSvc.RemoveTag(product.ID, tag.ID))
	})

	t.Run("Unknown tag still errors", func(t *testing.T) {
		err := tagSvc.RemoveTag(product.ID, uuid.New())
		assert.ErrorIs(t, err, ErrTagNotFound)
	})
}

func TestTagService_DeleteTag(t *testing.T) {
	tagSvc, productSvc, _ := setupTagServiceTest(t)

	product, err := productSvc.CreateProduct(CreateProductInput{
		Name:  "Tray",
		SKU:   "TR-001",
		Price: decimal.NewFromInt(60000),
	})
	require.NoError(t, err)

	tag := createTestTag(t, tagSvc, "Clearance")
	_, err = tagSvc.AssignTags(product.ID, []uuid.UUID{tag.ID})
	require.NoError(t, err)

	require.NoError(t, tagSvc.DeleteTag(tag.ID))

	// Products lose the label once the tag is gone.
	current, err := tagSvc.GetProductTags(product.ID)
	require.NoError(t, err)
	assert.Empty(t, current)

	_, err = tagSvc.GetTagByID(tag.ID)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTagService_RestoreTag(t *testing.T) {
	svc, _, _ := setupTagServiceTest(t)

	tag := createTestTag(t, svc, "Seasonal")
	require.NoError(t, svc.DeleteTag(tag.ID))

	t.Run("Restores a deleted tag", func(t *testing.T) {
		restored, err := svc.RestoreTag(tag.ID)
		require.NoError(t, err)
		assert.Equal(t, tag.ID, restored.ID)
		assert.False(t, restored.DeletedAt.Valid)
	})

	t.Run("Restoring a live tag fails", func(t *testing.T) {
		_, err := svc.RestoreTag(tag.ID)
		assert.ErrorIs(t, err, ErrNotDeleted)
	})

	t.Run("Unknown tag", func(t *testing.T) {
		_, err := svc.RestoreTag(uuid.New())
		assert.ErrorIs(t, err, ErrTagNotFound)
	})
}

func TestTagService_BulkDeleteTags(t *testing.T) {
	svc, _, _ := setupTagServiceTest(t)

	first := createTestTag(t, svc, "Alpha")
	second := createTestTag(t, svc, "Beta")

	result := svc.BulkDeleteTags([]uuid.UUID{first.ID, second.ID, uuid.New()})
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.FailedIDs, 1)
}

func TestTagService_GetStats(t *testing.T) {
	svc, _, _ := setupTagServiceTest(t)

	createTestTag(t, svc, "Visible")
	inactive := false
	_, err := svc.CreateTag(CreateTagInput{Name: "Hidden", IsActive: &inactive})
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Active)

	simple, err := svc.GetSimpleList()
	require.NoError(t, err)
	require.Len(t, simple, 1)
	assert.Equal(t, "Visible", simple[0].Name)
}
