package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/ikkim/udonggeum-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductSlugExists  = errors.New("product slug already exists")
	ErrProductSKUExists   = errors.New("product sku already exists")
	ErrVariantNotFound    = errors.New("product variant not found")
	ErrVariantSKUExists   = errors.New("variant sku already exists")
	ErrCategoryInvalid    = errors.New("category does not exist")
	ErrInvalidQuantity    = errors.New("quantity cannot be negative")
	ErrInvalidPrice       = errors.New("price cannot be negative")
	ErrVariantWrongParent = errors.New("variant does not belong to product")
)

type VariantInput struct {
	Name       string
	SKU        string
	Price      decimal.Decimal
	Quantity   int
	Attributes map[string]string
	Image      string
	IsActive   *bool
}

type CreateProductInput struct {
	Name              string
	Slug              string
	Description       string
	ShortDescription  string
	SKU               string
	Price             decimal.Decimal
	CompareAtPrice    *decimal.Decimal
	CostPrice         *decimal.Decimal
	Quantity          int
	LowStockThreshold *int
	Weight            *float64
	Status            *model.ProductStatus
	Images            []string
	CategoryID        *uuid.UUID
	Metadata          map[string]interface{}
	Variants          []VariantInput
	TagIDs            []uuid.UUID
}

type UpdateProductInput struct {
	Name              *string
	Slug              *string
	Description       *string
	ShortDescription  *string
	SKU               *string
	Price             *decimal.Decimal
	CompareAtPrice    *decimal.Decimal
	CostPrice         *decimal.Decimal
	Quantity          *int
	LowStockThreshold *int
	Weight            *float64
	Status            *model.ProductStatus
	Images            []string
	CategoryID        *uuid.UUID
	ClearCategory     bool
	Metadata          map[string]interface{}
}

type UpdateVariantInput struct {
	Name       *string
	SKU        *string
	Price      *decimal.Decimal
	Quantity   *int
	Attributes map[string]string
	Image      *string
	IsActive   *bool
}

type ProductListOptions struct {
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
	DeletedOnly bool
	WithDeleted bool
	SortBy      repository.ProductSort
	Ascending   bool
	Limit       int
	Offset      int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, int64, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	CreateProduct(input CreateProductInput) (*model.Product, error)
	UpdateProduct(id uuid.UUID, input UpdateProductInput) (*model.Product, error)
	UpdateQuantity(id uuid.UUID, quantity int) (*model.Product, error)
	UpdateStatus(id uuid.UUID, status model.ProductStatus) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	RestoreProduct(id uuid.UUID) (*model.Product, error)
	BulkDeleteProducts(ids []uuid.UUID) *BulkOperationResult
	BulkRestoreProducts(ids []uuid.UUID) *BulkOperationResult
	BulkUpdateStatus(ids []uuid.UUID, status model.ProductStatus) *BulkOperationResult
	GetStats() (*repository.ProductStats, error)

	ListVariants(productID uuid.UUID) ([]model.ProductVariant, error)
	AddVariant(productID uuid.UUID, input VariantInput) (*model.ProductVariant, error)
	UpdateVariant(productID, variantID uuid.UUID, input UpdateVariantInput) (*model.ProductVariant, error)
	UpdateVariantQuantity(productID, variantID uuid.UUID, quantity int) (*model.ProductVariant, error)
	DeleteVariant(productID, variantID uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
	}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, int64, error) {
	visibility := repository.VisibilityDefault
	if opts.DeletedOnly {
		visibility = repository.VisibilityDeletedOnly
	} else if opts.WithDeleted {
		visibility = repository.VisibilityAll
	}

	return s.productRepo.FindWithFilter(repository.ProductFilter{
		Status:      opts.Status,
		CategoryID:  opts.CategoryID,
		TagID:       opts.TagID,
		Search:      opts.Search,
		MinPrice:    opts.MinPrice,
		MaxPrice:    opts.MaxPrice,
		HasVariants: opts.HasVariants,
		InStock:     opts.InStock,
		LowStock:    opts.LowStock,
		CreatedFrom: opts.CreatedFrom,
		CreatedTo:   opts.CreatedTo,
		Visibility:  visibility,
		SortBy:      opts.SortBy,
		Ascending:   opts.Ascending,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	})
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id, repository.VisibilityDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) resolveSlug(name, slug string, excludeID *uuid.UUID) (string, error) {
	if slug == "" {
		slug = util.Slugify(name)
	} else {
		slug = util.Slugify(slug)
	}
	count, err := s.productRepo.CountBySlug(slug, excludeID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrProductSlugExists
	}
	return slug, nil
}

func (s *productService) checkSKU(sku string, excludeID *uuid.UUID) error {
	count, err := s.productRepo.CountBySKU(sku, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductSKUExists
	}
	return nil
}

func (s *productService) checkVariantSKU(sku string, excludeID *uuid.UUID) error {
	count, err := s.variantRepo.CountBySKU(sku, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrVariantSKUExists
	}
	return nil
}

func (s *productService) checkCategory(id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(id, repository.VisibilityDefault); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryInvalid
		}
		return err
	}
	return nil
}

// CreateProduct validates slug, SKU, category and every variant SKU up
// front, then writes the product and its variants in one transaction.
func (s *productService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	slug, err := s.resolveSlug(input.Name, input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if err := s.checkSKU(input.SKU, nil); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(input.Variants))
	for _, v := range input.Variants {
		if v.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		if v.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		if seen[v.SKU] {
			return nil, ErrVariantSKUExists
		}
		seen[v.SKU] = true
		if err := s.checkVariantSKU(v.SKU, nil); err != nil {
			return nil, err
		}
	}

	var tags []model.Tag
	if len(input.TagIDs) > 0 {
		tags, err = s.tagRepo.FindActiveByIDs(input.TagIDs)
		if err != nil {
			return nil, err
		}
		if len(tags) != len(input.TagIDs) {
			return nil, ErrTagInvalid
		}
	}

	product := &model.Product{
		Name:             strings.TrimSpace(input.Name),
		Slug:             slug,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		SKU:              input.SKU,
		Price:            input.Price,
		CompareAtPrice:   input.CompareAtPrice,
		CostPrice:        input.CostPrice,
		Quantity:         input.Quantity,
		Weight:           input.Weight,
		Status:           model.ProductDraft,
		Images:           input.Images,
		CategoryID:       input.CategoryID,
		Metadata:         input.Metadata,
		Tags:             tags,
		HasVariants:      len(input.Variants) > 0,
	}
	product.LowStockThreshold = 5
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	for _, v := range input.Variants {
		variant := model.ProductVariant{
			Name:       v.Name,
			SKU:        v.SKU,
			Price:      v.Price,
			Quantity:   v.Quantity,
			Attributes: v.Attributes,
			Image:      v.Image,
			IsActive:   true,
		}
		if v.IsActive != nil {
			variant.IsActive = *v.IsActive
		}
		product.Variants = append(product.Variants, variant)
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id":    product.ID,
		"slug":          product.Slug,
		"variant_count": len(product.Variants),
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, input UpdateProductInput) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil && util.Slugify(*input.Slug) != product.Slug {
		slug, err := s.resolveSlug(product.Name, *input.Slug, &product.ID)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	if input.SKU != nil && *input.SKU != product.SKU {
		if err := s.checkSKU(*input.SKU, &product.ID); err != nil {
			return nil, err
		}
		product.SKU = *input.SKU
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ShortDescription != nil {
		product.ShortDescription = *input.ShortDescription
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = input.CompareAtPrice
	}
	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		product.Quantity = *input.Quantity
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Weight != nil {
		product.Weight = input.Weight
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.ClearCategory {
		product.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Metadata != nil {
		product.Metadata = input.Metadata
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateQuantity(id uuid.UUID, quantity int) (*model.Product, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetProductByID(id); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateQuantity(id, quantity); err != nil {
		return nil, err
	}
	return s.GetProductByID(id)
}

func (s *productService) UpdateStatus(id uuid.UUID, status model.ProductStatus) (*model.Product, error) {
	if _, err := s.GetProductByID(id); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return s.GetProductByID(id)
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.GetProductByID(id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) RestoreProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id, repository.VisibilityAll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.DeletedAt.Valid {
		return nil, ErrNotDeleted
	}

	if err := s.productRepo.Restore(id); err != nil {
		return nil, err
	}

	logger.Info("Product restored", map[string]interface{}{
		"product_id": id,
	})
	return s.GetProductByID(id)
}

func (s *productService) BulkDeleteProducts(ids []uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if err := s.DeleteProduct(id); err != nil {
			logger.Warn("Bulk product delete item failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *productService) BulkRestoreProducts(ids []uuid.UUID) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if _, err := s.RestoreProduct(id); err != nil {
			logger.Warn("Bulk product restore item failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *productService) BulkUpdateStatus(ids []uuid.UUID, status model.ProductStatus) *BulkOperationResult {
	result := &BulkOperationResult{FailedIDs: []uuid.UUID{}}
	for _, id := range ids {
		if _, err := s.UpdateStatus(id, status); err != nil {
			logger.Warn("Bulk product status item failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			result.recordFailure(id)
			continue
		}
		result.recordSuccess()
	}
	return result
}

func (s *productService) GetStats() (*repository.ProductStats, error) {
	return s.productRepo.Stats()
}

func (s *productService) ListVariants(productID uuid.UUID) ([]model.ProductVariant, error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	return s.variantRepo.FindByProduct(productID)
}

// AddVariant inserts the variant and flips the product's variant flag in
// the same transaction, so the flag can never disagree with the rows.
func (s *productService) AddVariant(productID uuid.UUID, input VariantInput) (*model.ProductVariant, error) {
	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	if err := s.checkVariantSKU(input.SKU, nil); err != nil {
		return nil, err
	}

	variant := &model.ProductVariant{
		ProductID:  productID,
		Name:       input.Name,
		SKU:        input.SKU,
		Price:      input.Price,
		Quantity:   input.Quantity,
		Attributes: input.Attributes,
		Image:      input.Image,
		IsActive:   true,
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	err := s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(variant).Error; err != nil {
			return err
		}
		return s.productRepo.SetHasVariants(tx, productID, true)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product variant added", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})
	return variant, nil
}

func (s *productService) getOwnedVariant(productID, variantID uuid.UUID) (*model.ProductVariant, error) {
	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.ProductID != productID {
		return nil, ErrVariantWrongParent
	}
	return variant, nil
}

func (s *productService) UpdateVariant(productID, variantID uuid.UUID, input UpdateVariantInput) (*model.ProductVariant, error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	variant, err := s.getOwnedVariant(productID, variantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		variant.Name = *input.Name
	}
	if input.SKU != nil && *input.SKU != variant.SKU {
		if err := s.checkVariantSKU(*input.SKU, &variant.ID); err != nil {
			return nil, err
		}
		variant.SKU = *input.SKU
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		variant.Price = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		variant.Quantity = *input.Quantity
	}
	if input.Attributes != nil {
		variant.Attributes = input.Attributes
	}
	if input.Image != nil {
		variant.Image = *input.Image
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) UpdateVariantQuantity(productID, variantID uuid.UUID, quantity int) (*model.ProductVariant, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	if _, err := s.getOwnedVariant(productID, variantID); err != nil {
		return nil, err
	}
	if err := s.variantRepo.UpdateQuantity(variantID, quantity); err != nil {
		return nil, err
	}
	return s.variantRepo.FindByID(variantID)
}

// DeleteVariant removes the variant and clears the product's variant flag
// when it was the last one, in a single transaction.
func (s *productService) DeleteVariant(productID, variantID uuid.UUID) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	if _, err := s.getOwnedVariant(productID, variantID); err != nil {
		return err
	}

	return s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.variantRepo.Delete(tx, variantID); err != nil {
			return err
		}
		remaining, err := s.variantRepo.CountByProduct(tx, productID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return s.productRepo.SetHasVariants(tx, productID, false)
		}
		return nil
	})
}
