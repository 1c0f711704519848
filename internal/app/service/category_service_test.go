package service

import (
	"testing"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewCategoryService(categoryRepo), testDB
}

func createTestCategory(t *testing.T, svc CategoryService, name string, parentID *uuid.UUID) *model.Category {
	t.Helper()
	category, err := svc.CreateCategory(CreateCategoryInput{
		Name:     name,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return category
}

func TestCategoryService_CreateCategory(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	t.Run("Generates slug from name", func(t *testing.T) {
		category, err := svc.CreateCategory(CreateCategoryInput{
			Name: "Home Appliances",
		})
		require.NoError(t, err)
		assert.Equal(t, "home-appliances", category.Slug)
		assert.True(t, category.IsActive)
	})

	t.Run("Duplicate slug rejected", func(t *testing.T) {
		_, err := svc.CreateCategory(CreateCategoryInput{
			Name: "Home appliances",
		})
		assert.ErrorIs(t, err, ErrCategorySlugExists)
	})

	t.Run("Unknown parent rejected", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.CreateCategory(CreateCategoryInput{
			Name:     "Orphan",
			ParentID: &missing,
		})
		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestCategoryService_DeletedSlugStaysReserved(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	category := createTestCategory(t, svc, "Electronics", nil)
	require.NoError(t, svc.DeleteCategory(category.ID))

	_, err := svc.CreateCategory(CreateCategoryInput{Name: "Electronics"})
	assert.ErrorIs(t, err, ErrCategorySlugExists)
}

func TestCategoryService_SelfParentRejected(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	category := createTestCategory(t, svc, "Books", nil)
	_, err := svc.UpdateCategory(category.ID, UpdateCategoryInput{
		ParentID: &category.ID,
	})
	assert.ErrorIs(t, err, ErrCategorySelfParent)
}

func TestCategoryService_CycleRejected(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	// a -> b -> c, then try to hang a under c.
	a := createTestCategory(t, svc, "Alpha", nil)
	b := createTestCategory(t, svc, "Beta", &a.ID)
	c := createTestCategory(t, svc, "Gamma", &b.ID)

	_, err := svc.UpdateCategory(a.ID, UpdateCategoryInput{
		ParentID: &c.ID,
	})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// Direct child is also a cycle.
	_, err = svc.UpdateCategory(a.ID, UpdateCategoryInput{
		ParentID: &b.ID,
	})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// Reparenting c under a is legal: a is an ancestor, not a descendant.
	moved, err := svc.UpdateCategory(c.ID, UpdateCategoryInput{
		ParentID: &a.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, *moved.ParentID)
}

func TestCategoryService_DeletePreservesChildren(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	parent := createTestCategory(t, svc, "Parent", nil)
	child := createTestCategory(t, svc, "Child", &parent.ID)

	require.NoError(t, svc.DeleteCategory(parent.ID))

	// The child stays live and keeps pointing at the deleted parent.
	got, err := svc.GetCategoryByID(child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)

	_, err = svc.GetCategoryByID(parent.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_RestoreCategory(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	category := createTestCategory(t, svc, "Seasonal", nil)

	t.Run("Restore of live category fails", func(t *testing.T) {
		_, err := svc.RestoreCategory(category.ID)
		assert.ErrorIs(t, err, ErrNotDeleted)
	})

	t.Run("Delete then restore round trip", func(t *testing.T) {
		require.NoError(t, svc.DeleteCategory(category.ID))

		_, err := svc.GetCategoryByID(category.ID)
		assert.ErrorIs(t, err, ErrCategoryNotFound)

		restored, err := svc.RestoreCategory(category.ID)
		require.NoError(t, err)
		assert.Equal(t, category.ID, restored.ID)
		assert.False(t, restored.DeletedAt.Valid)
	})

	t.Run("Restore of unknown id fails", func(t *testing.T) {
		_, err := svc.RestoreCategory(uuid.New())
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCategoryService_ListDeletedOnly(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	live := createTestCategory(t, svc, "Live", nil)
	gone := createTestCategory(t, svc, "Gone", nil)
	require.NoError(t, svc.DeleteCategory(gone.ID))

	deleted, total, err := svc.ListCategories(CategoryListOptions{DeletedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, deleted, 1)
	assert.Equal(t, gone.ID, deleted[0].ID)

	all, total, err := svc.ListCategories(CategoryListOptions{WithDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	visible, total, err := svc.ListCategories(CategoryListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, visible, 1)
	assert.Equal(t, live.ID, visible[0].ID)
}

func TestCategoryService_GetTree(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	root := createTestCategory(t, svc, "Root", nil)
	createTestCategory(t, svc, "Branch", &root.ID)
	createTestCategory(t, svc, "Other Root", nil)

	tree, err := svc.GetTree()
	require.NoError(t, err)
	require.Len(t, tree, 2)

	var found *model.Category
	for i := range tree {
		if tree[i].ID == root.ID {
			found = &tree[i]
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Children, 1)
	assert.Equal(t, "Branch", found.Children[0].Name)
}

func TestCategoryService_BulkDelete(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t)

	a := createTestCategory(t, svc, "One", nil)
	b := createTestCategory(t, svc, "Two", nil)
	missing := uuid.New()

	result := svc.BulkDeleteCategories([]uuid.UUID{a.ID, missing, b.ID})
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []uuid.UUID{missing}, result.FailedIDs)
}
