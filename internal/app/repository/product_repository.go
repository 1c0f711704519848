package repository

import (
	"fmt"
	"time"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortName      ProductSort = "name"
	ProductSortPrice     ProductSort = "price"
	ProductSortQuantity  ProductSort = "quantity"
)

type ProductFilter struct {
	Status      *model.ProductStatus
	CategoryID  *uuid.UUID
	TagID       *uuid.UUID
	Search      string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	HasVariants *bool
	InStock     *bool
	LowStock    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Visibility  Visibility
	SortBy      ProductSort
	Ascending   bool
	Limit       int
	Offset      int
}

// ProductStats is the aggregate snapshot for the admin dashboard.
type ProductStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Draft      int64 `json:"draft"`
	Inactive   int64 `json:"inactive"`
	OutOfStock int64 `json:"out_of_stock"`
	LowStock   int64 `json:"low_stock"`
	Deleted    int64 `json:"deleted"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uuid.UUID, visibility Visibility) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindLowStockCandidates() ([]model.Product, error)
	CountBySlug(slug string, excludeID *uuid.UUID) (int64, error)
	CountBySKU(sku string, excludeID *uuid.UUID) (int64, error)
	Update(product *model.Product) error
	UpdateQuantity(id uuid.UUID, quantity int) error
	UpdateStatus(id uuid.UUID, status model.ProductStatus) error
	SetHasVariants(tx *gorm.DB, id uuid.UUID, hasVariants bool) error
	Delete(id uuid.UUID) error
	Restore(id uuid.UUID) error
	Stats() (*ProductStats, error)
	DB() *gorm.DB
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// DB exposes the underlying handle for cross-repository transactions.
func (r *productRepository) DB() *gorm.DB {
	return r.db
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product", map[string]interface{}{
		"name": product.Name,
		"slug": product.Slug,
		"sku":  product.SKU,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return r.db.CreateInBatches(products, batchSize).Error
}

// SQL renditions of the model-level stock derivation, for list filters.
// Variant-carrying products derive stock from their live active variants,
// the rest from their own quantity.
const (
	inStockPredicate = `(products.has_variants = true AND EXISTS (
		SELECT 1 FROM product_variants v
		WHERE v.product_id = products.id AND v.deleted_at IS NULL
		AND v.is_active = true AND v.quantity > 0))
	OR (products.has_variants = false AND products.quantity > 0)`

	lowStockPredicate = `(products.has_variants = true AND EXISTS (
		SELECT 1 FROM product_variants v
		WHERE v.product_id = products.id AND v.deleted_at IS NULL
		AND v.is_active = true AND v.quantity > 0
		AND v.quantity <= products.low_stock_threshold))
	OR (products.has_variants = false AND products.quantity > 0
		AND products.quantity <= products.low_stock_threshold)`
)

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Variants").
		Preload("Tags")
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	query := applyVisibility(r.db.Model(&model.Product{}), filter.Visibility)

	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.TagID != nil {
		query = query.Joins("JOIN product_tags ON product_tags.product_id = products.id").
			Where("product_tags.tag_id = ?", *filter.TagID)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.sku LIKE ? OR products.slug LIKE ?", like, like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.HasVariants != nil {
		query = query.Where("products.has_variants = ?", *filter.HasVariants)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			query = query.Where(inStockPredicate)
		} else {
			query = query.Where("NOT (" + inStockPredicate + ")")
		}
	}
	if filter.LowStock != nil {
		if *filter.LowStock {
			query = query.Where(lowStockPredicate)
		} else {
			query = query.Where("NOT (" + lowStockPredicate + ")")
		}
	}
	if filter.CreatedFrom != nil {
		query = query.Where("products.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("products.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = ProductSortCreatedAt
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order(fmt.Sprintf("products.%s %s", sortBy, direction))

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	err := query.
		Preload("Category").
		Preload("Variants").
		Preload("Tags").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindByID(id uuid.UUID, visibility Visibility) (*model.Product, error) {
	var product model.Product
	query := applyVisibility(r.baseQuery(), visibility)
	if err := query.First(&product, "products.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().First(&product, "products.slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindLowStockCandidates returns active products that might be low on
// stock, with variants preloaded. The caller applies the per-product
// derivation; the query only narrows the set.
func (r *productRepository) FindLowStockCandidates() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Model(&model.Product{}).
		Preload("Variants").
		Where("status = ?", model.ProductActive).
		Where("has_variants = ? OR quantity <= low_stock_threshold", true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CountBySlug(slug string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *productRepository) CountBySKU(sku string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.Product{}).Where("sku = ?", sku)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *productRepository) Update(product *model.Product) error {
	err := r.db.Omit("Category", "Variants", "Tags").Save(product).Error
	if err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateQuantity(id uuid.UUID, quantity int) error {
	return r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *productRepository) UpdateStatus(id uuid.UUID, status model.ProductStatus) error {
	return r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("status", status).Error
}

// SetHasVariants flips the persisted variant flag inside the caller's
// transaction so it can never drift from the variant rows themselves.
func (r *productRepository) SetHasVariants(tx *gorm.DB, id uuid.UUID, hasVariants bool) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("has_variants", hasVariants).Error
}

func (r *productRepository) Delete(id uuid.UUID) error {
	logger.Debug("Soft deleting product", map[string]interface{}{
		"product_id": id,
	})
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepository) Restore(id uuid.UUID) error {
	return r.db.Unscoped().Model(&model.Product{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *productRepository) Stats() (*ProductStats, error) {
	stats := &ProductStats{}

	if err := r.db.Model(&model.Product{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status model.ProductStatus
		Count  int64
	}
	var counts []statusCount
	err := r.db.Model(&model.Product{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.Status {
		case model.ProductActive:
			stats.Active = c.Count
		case model.ProductDraft:
			stats.Draft = c.Count
		case model.ProductInactive:
			stats.Inactive = c.Count
		case model.ProductOutOfStock:
			stats.OutOfStock = c.Count
		}
	}

	err = r.db.Unscoped().Model(&model.Product{}).
		Where("deleted_at IS NOT NULL").
		Count(&stats.Deleted).Error
	if err != nil {
		return nil, err
	}

	candidates, err := r.FindLowStockCandidates()
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].IsLowStock() {
			stats.LowStock++
		}
	}
	return stats, nil
}
