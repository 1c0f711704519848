package repository

import (
	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductVariantRepository interface {
	Create(variant *model.ProductVariant) error
	FindByID(id uuid.UUID) (*model.ProductVariant, error)
	FindByProduct(productID uuid.UUID) ([]model.ProductVariant, error)
	CountBySKU(sku string, excludeID *uuid.UUID) (int64, error)
	CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error)
	Update(variant *model.ProductVariant) error
	UpdateQuantity(id uuid.UUID, quantity int) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type productVariantRepository struct {
	db *gorm.DB
}

func NewProductVariantRepository(db *gorm.DB) ProductVariantRepository {
	return &productVariantRepository{db: db}
}

func (r *productVariantRepository) Create(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant", map[string]interface{}{
		"product_id": variant.ProductID,
		"sku":        variant.SKU,
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create product variant", err, map[string]interface{}{
			"sku": variant.SKU,
		})
		return err
	}
	return nil
}

func (r *productVariantRepository) FindByID(id uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productVariantRepository) FindByProduct(productID uuid.UUID) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.db.Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// CountBySKU counts across every variant row, deleted included. Variant
// SKUs are unique across the whole catalog, not per product.
func (r *productVariantRepository) CountBySKU(sku string, excludeID *uuid.UUID) (int64, error) {
	query := r.db.Unscoped().Model(&model.ProductVariant{}).Where("sku = ?", sku)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *productVariantRepository) CountByProduct(tx *gorm.DB, productID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.Model(&model.ProductVariant{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *productVariantRepository) Update(variant *model.ProductVariant) error {
	err := r.db.Omit("Product").Save(variant).Error
	if err != nil {
		logger.Error("Failed to update product variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

func (r *productVariantRepository) UpdateQuantity(id uuid.UUID, quantity int) error {
	return r.db.Model(&model.ProductVariant{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *productVariantRepository) Delete(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Delete(&model.ProductVariant{}, "id = ?", id).Error
}
