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

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewProductVariantRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)

	return NewProductService(productRepo, variantRepo, categoryRepo, tagRepo), testDB
}

func createTestProduct(t *testing.T, svc ProductService, name, sku string) *model.Product {
	t.Helper()
	product, err := svc.CreateProduct(CreateProductInput{
		Name:     name,
		SKU:      sku,
		Price:    decimal.NewFromInt(150000),
		Quantity: 10,
	})
	require.NoError(t, err)
	return product
}

func TestProductService_CreateProduct(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	t.Run("Valid product", func(t *testing.T) {
		product, err := svc.CreateProduct(CreateProductInput{
			Name:     "Ceramic Mug",
			SKU:      "MUG-001",
			Price:    decimal.NewFromInt(85000),
			Quantity: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, "ceramic-mug", product.Slug)
		assert.Equal(t, model.ProductDraft, product.Status)
		assert.Equal(t, 5, product.LowStockThreshold)
		assert.False(t, product.HasVariants)
	})

	t.Run("Duplicate slug", func(t *testing.T) {
		_, err := svc.CreateProduct(CreateProductInput{
			Name:  "Ceramic Mug",
			SKU:   "MUG-002",
			Price: decimal.NewFromInt(85000),
		})
		assert.ErrorIs(t, err, ErrProductSlugExists)
	})

	t.Run("Duplicate SKU", func(t *testing.T) {
		_, err := svc.CreateProduct(CreateProductInput{
			Name:  "Another Mug",
			SKU:   "MUG-001",
			Price: decimal.NewFromInt(85000),
		})
		assert.ErrorIs(t, err, ErrProductSKUExists)
	})

	t.Run("Negative price", func(t *testing.T) {
		_, err := svc.CreateProduct(CreateProductInput{
			Name:  "Bad Price",
			SKU:   "BAD-001",
			Price: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("Unknown category", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.CreateProduct(CreateProductInput{
			Name:       "No Category",
			SKU:        "CAT-404",
			Price:      decimal.NewFromInt(1000),
			CategoryID: &missing,
		})
		assert.ErrorIs(t, err, ErrCategoryInvalid)
	})
}

func TestProductService_CreateWithVariants(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:  "T-Shirt",
		SKU:   "TS-000",
		Price: decimal.NewFromInt(200000),
		Variants: []VariantInput{
			{Name: "Small", SKU: "TS-S", Price: decimal.NewFromInt(200000), Quantity: 3},
			{Name: "Large", SKU: "TS-L", Price: decimal.NewFromInt(210000), Quantity: 0},
		},
	})
	require.NoError(t, err)
	assert.True(t, product.HasVariants)
	require.Len(t, product.Variants, 2)

	loaded, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsInStock())
	assert.True(t, loaded.IsLowStock())

	t.Run("Duplicate variant SKU in payload fails whole create", func(t *testing.T) {
		_, err := svc.CreateProduct(CreateProductInput{
			Name:  "Hoodie",
			SKU:   "HD-000",
			Price: decimal.NewFromInt(400000),
			Variants: []VariantInput{
				{Name: "A", SKU: "HD-A", Price: decimal.NewFromInt(400000)},
				{Name: "B", SKU: "HD-A", Price: decimal.NewFromInt(400000)},
			},
		})
		assert.ErrorIs(t, err, ErrVariantSKUExists)

		_, err = svc.GetProductBySlug("hoodie")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Variant SKU taken by another product", func(t *testing.T) {
		_, err := svc.CreateProduct(CreateProductInput{
			Name:  "Sweater",
			SKU:   "SW-000",
			Price: decimal.NewFromInt(300000),
			Variants: []VariantInput{
				{Name: "Small", SKU: "TS-S", Price: decimal.NewFromInt(300000)},
			},
		})
		assert.ErrorIs(t, err, ErrVariantSKUExists)
	})
}

func TestProductService_VariantLifecycle(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := createTestProduct(t, svc, "Lamp", "LAMP-001")
	assert.False(t, product.HasVariants)

	variant, err := svc.AddVariant(product.ID, VariantInput{
		Name:     "Brass",
		SKU:      "LAMP-001-BR",
		Price:    decimal.NewFromInt(500000),
		Quantity: 2,
	})
	require.NoError(t, err)

	loaded, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasVariants)

	t.Run("Variant of another product is rejected", func(t *testing.T) {
		other := createTestProduct(t, svc, "Desk", "DESK-001")
		_, err := svc.UpdateVariant(other.ID, variant.ID, UpdateVariantInput{})
		assert.ErrorIs(t, err, ErrVariantWrongParent)
	})

	t.Run("Quantity update", func(t *testing.T) {
		updated, err := svc.UpdateVariantQuantity(product.ID, variant.ID, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, updated.Quantity)

		_, err = svc.UpdateVariantQuantity(product.ID, variant.ID, -1)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Deleting last variant clears the flag", func(t *testing.T) {
		require.NoError(t, svc.DeleteVariant(product.ID, variant.ID))

		loaded, err := svc.GetProductByID(product.ID)
		require.NoError(t, err)
		assert.False(t, loaded.HasVariants)
		assert.Empty(t, loaded.Variants)
	})
}

func TestProductService_StockDerivation(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := createTestProduct(t, svc, "Vase", "VASE-001")

	// Simple product: quantity drives stock state.
	loaded, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsInStock())
	assert.False(t, loaded.IsLowStock())

	loaded, err = svc.UpdateQuantity(product.ID, 3)
	require.NoError(t, err)
	assert.True(t, loaded.IsInStock())
	assert.True(t, loaded.IsLowStock())

	loaded, err = svc.UpdateQuantity(product.ID, 0)
	require.NoError(t, err)
	assert.False(t, loaded.IsInStock())
	assert.False(t, loaded.IsLowStock())

	// Once a variant exists, the product's own quantity stops mattering.
	_, err = svc.AddVariant(product.ID, VariantInput{
		Name:     "Tall",
		SKU:      "VASE-001-T",
		Price:    decimal.NewFromInt(120000),
		Quantity: 50,
	})
	require.NoError(t, err)

	loaded, err = svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsInStock())
	assert.False(t, loaded.IsLowStock())
}

func TestProductService_RestoreProduct(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product := createTestProduct(t, svc, "Rug", "RUG-001")

	_, err := svc.RestoreProduct(product.ID)
	assert.ErrorIs(t, err, ErrNotDeleted)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err = svc.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	restored, err := svc.RestoreProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, restored.ID)
}

func TestProductService_BulkOperations(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	a := createTestProduct(t, svc, "Bulk A", "BULK-A")
	b := createTestProduct(t, svc, "Bulk B", "BULK-B")
	missing := uuid.New()

	t.Run("Bulk status update is best effort", func(t *testing.T) {
		result := svc.BulkUpdateStatus([]uuid.UUID{a.ID, missing, b.ID}, model.ProductActive)
		assert.Equal(t, 2, result.Success)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []uuid.UUID{missing}, result.FailedIDs)

		loaded, err := svc.GetProductByID(a.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ProductActive, loaded.Status)
	})

	t.Run("Bulk delete reports per item outcome", func(t *testing.T) {
		result := svc.BulkDeleteProducts([]uuid.UUID{a.ID, a.ID})
		assert.Equal(t, 1, result.Success)
		assert.Equal(t, 1, result.Failed)
	})
}

func TestProductService_Stats(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	active := createTestProduct(t, svc, "Stat Active", "ST-A")
	_, err := svc.UpdateStatus(active.ID, model.ProductActive)
	require.NoError(t, err)

	low := createTestProduct(t, svc, "Stat Low", "ST-L")
	_, err = svc.UpdateStatus(low.ID, model.ProductActive)
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(low.ID, 2)
	require.NoError(t, err)

	gone := createTestProduct(t, svc, "Stat Gone", "ST-G")
	require.NoError(t, svc.DeleteProduct(gone.ID))

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.LowStock)
	assert.Equal(t, int64(1), stats.Deleted)
}

func TestProductService_ListFilters(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	_, err := svc.CreateProduct(CreateProductInput{
		Name:     "Spoon",
		SKU:      "SP-001",
		Price:    decimal.NewFromInt(20000),
		Quantity: 10,
	})
	require.NoError(t, err)

	empty, err := svc.CreateProduct(CreateProductInput{
		Name:     "Bowl",
		SKU:      "BW-001",
		Price:    decimal.NewFromInt(90000),
		Quantity: 0,
	})
	require.NoError(t, err)

	low, err := svc.CreateProduct(CreateProductInput{
		Name:     "Plate",
		SKU:      "PL-001",
		Price:    decimal.NewFromInt(150000),
		Quantity: 3,
	})
	require.NoError(t, err)

	t.Run("In stock only", func(t *testing.T) {
		yes := true
		products, total, err := svc.ListProducts(ProductListOptions{InStock: &yes})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, p := range products {
			assert.NotEqual(t, empty.ID, p.ID)
		}
	})

	t.Run("Out of stock only", func(t *testing.T) {
		no := false
		products, total, err := svc.ListProducts(ProductListOptions{InStock: &no})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, empty.ID, products[0].ID)
	})

	t.Run("Low stock only", func(t *testing.T) {
		yes := true
		products, total, err := svc.ListProducts(ProductListOptions{LowStock: &yes})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, low.ID, products[0].ID)
	})

	t.Run("Price range", func(t *testing.T) {
		min := decimal.NewFromInt(50000)
		max := decimal.NewFromInt(100000)
		products, total, err := svc.ListProducts(ProductListOptions{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, empty.ID, products[0].ID)
	})

	t.Run("Without variants", func(t *testing.T) {
		no := false
		_, total, err := svc.ListProducts(ProductListOptions{HasVariants: &no})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}
