package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ikkim/udonggeum-backend/internal/app/model"
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-backend/internal/errors"
	"github.com/ikkim/udonggeum-backend/internal/middleware"
	"github.com/ikkim/udonggeum-backend/pkg/pagination"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ProductResponse augments the stored product with the derived stock
// state so clients never compute it themselves.
type ProductResponse struct {
	*model.Product
	InStock  bool `json:"in_stock"`
	LowStock bool `json:"low_stock"`
}

func newProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		Product:  p,
		InStock:  p.IsInStock(),
		LowStock: p.IsLowStock(),
	}
}

func newProductResponses(products []model.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = newProductResponse(&products[i])
	}
	return responses
}

type VariantRequest struct {
	Name       string            `json:"name" binding:"required,min=1,max=255"`
	SKU        string            `json:"sku" binding:"required,min=1,max=100"`
	Price      decimal.Decimal   `json:"price" binding:"required"`
	Quantity   int               `json:"quantity"`
	Attributes map[string]string `json:"attributes"`
	Image      string            `json:"image"`
	IsActive   *bool             `json:"is_active"`
}

type CreateProductRequest struct {
	Name              string                 `json:"name" binding:"required,min=1,max=255"`
	Slug              string                 `json:"slug"`
	Description       string                 `json:"description"`
	ShortDescription  string                 `json:"short_description"`
	SKU               string                 `json:"sku" binding:"required,min=1,max=100"`
	Price             decimal.Decimal        `json:"price" binding:"required"`
	CompareAtPrice    *decimal.Decimal       `json:"compare_at_price"`
	CostPrice         *decimal.Decimal       `json:"cost_price"`
	Quantity          int                    `json:"quantity"`
	LowStockThreshold *int                   `json:"low_stock_threshold"`
	Weight            *float64               `json:"weight"`
	Status            *model.ProductStatus   `json:"status"`
	Images            []string               `json:"images"`
	CategoryID        *uuid.UUID             `json:"category_id"`
	Metadata          map[string]interface{} `json:"metadata"`
	Variants          []VariantRequest       `json:"variants"`
	TagIDs            []uuid.UUID            `json:"tag_ids"`
}

type UpdateProductRequest struct {
	Name              *string                `json:"name" binding:"omitempty,min=1,max=255"`
	Slug              *string                `json:"slug"`
	Description       *string                `json:"description"`
	ShortDescription  *string                `json:"short_description"`
	SKU               *string                `json:"sku" binding:"omitempty,min=1,max=100"`
	Price             *decimal.Decimal       `json:"price"`
	CompareAtPrice    *decimal.Decimal       `json:"compare_at_price"`
	CostPrice         *decimal.Decimal       `json:"cost_price"`
	Quantity          *int                   `json:"quantity"`
	LowStockThreshold *int                   `json:"low_stock_threshold"`
	Weight            *float64               `json:"weight"`
	Status            *model.ProductStatus   `json:"status"`
	Images            []string               `json:"images"`
	CategoryID        *uuid.UUID             `json:"category_id"`
	ClearCategory     bool                   `json:"clear_category"`
	Metadata          map[string]interface{} `json:"metadata"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type UpdateStatusRequest struct {
	Status model.ProductStatus `json:"status" binding:"required,oneof=draft active inactive out_of_stock"`
}

type BulkStatusRequest struct {
	IDs    []uuid.UUID         `json:"ids" binding:"required,min=1"`
	Status model.ProductStatus `json:"status" binding:"required,oneof=draft active inactive out_of_stock"`
}

type UpdateVariantRequest struct {
	Name       *string           `json:"name" binding:"omitempty,min=1,max=255"`
	SKU        *string           `json:"sku" binding:"omitempty,min=1,max=100"`
	Price      *decimal.Decimal  `json:"price"`
	Quantity   *int              `json:"quantity"`
	Attributes map[string]string `json:"attributes"`
	Image      *string           `json:"image"`
	IsActive   *bool             `json:"is_active"`
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrProductSlugExists):
		apperrors.Conflict(c, apperrors.ProductSlugExists, "Product with this slug already exists")
	case errors.Is(err, service.ErrProductSKUExists):
		apperrors.Conflict(c, apperrors.ProductSKUExists, "Product with this SKU already exists")
	case errors.Is(err, service.ErrVariantNotFound), errors.Is(err, service.ErrVariantWrongParent):
		apperrors.NotFound(c, apperrors.VariantNotFound, "Product variant not found")
	case errors.Is(err, service.ErrVariantSKUExists):
		apperrors.Conflict(c, apperrors.VariantSKUExists, "Variant with this SKU already exists")
	case errors.Is(err, service.ErrCategoryInvalid):
		apperrors.BadRequest(c, apperrors.CategoryNotFound, "Category does not exist")
	case errors.Is(err, service.ErrTagInvalid):
		apperrors.BadRequest(c, apperrors.TagInvalidTags, "One or more tags do not exist or are inactive")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Price cannot be negative")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity cannot be negative")
	case errors.Is(err, service.ErrNotDeleted):
		apperrors.BadRequest(c, apperrors.ResourceNotDeleted, "Product is not deleted")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
	}
}

// List returns a paginated product listing
// GET /api/v1/admin/products
func (ctrl *ProductController) List(c *gin.Context) {
	params := pagination.Parse(c)

	opts := service.ProductListOptions{
		Search:      params.Search,
		HasVariants: boolQuery(c, "has_variants"),
		InStock:     boolQuery(c, "in_stock"),
		LowStock:    boolQuery(c, "low_stock"),
		DeletedOnly: c.Query("deleted") == "true",
		WithDeleted: c.Query("with_deleted") == "true",
		SortBy:      repository.ProductSort(params.SortBy),
		Ascending:   params.Ascending(),
		Limit:       params.Limit,
		Offset:      params.Offset(),
	}
	if status := c.Query("status"); status != "" {
		s := model.ProductStatus(status)
		opts.Status = &s
	}
	if category := c.Query("category_id"); category != "" {
		categoryID, err := uuid.Parse(category)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category_id parameter")
			return
		}
		opts.CategoryID = &categoryID
	}
	if tag := c.Query("tag_id"); tag != "" {
		tagID, err := uuid.Parse(tag)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag_id parameter")
			return
		}
		opts.TagID = &tagID
	}
	if raw := c.Query("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid min_price parameter")
			return
		}
		opts.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid max_price parameter")
			return
		}
		opts.MaxPrice = &price
	}
	var ok bool
	if opts.CreatedFrom, ok = timeQuery(c, "created_from"); !ok {
		return
	}
	if opts.CreatedTo, ok = timeQuery(c, "created_to"); !ok {
		return
	}

	products, total, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": newProductResponses(products),
		"meta":     pagination.NewMeta(total, params),
	})
}

// Get returns a single product with variants and tags
// GET /api/v1/admin/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": newProductResponse(product),
	})
}

// Stats returns catalog aggregates for the dashboard
// GET /api/v1/admin/products/stats
func (ctrl *ProductController) Stats(c *gin.Context) {
	stats, err := ctrl.productService.GetStats()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

func variantInputs(requests []VariantRequest) []service.VariantInput {
	inputs := make([]service.VariantInput, len(requests))
	for i, r := range requests {
		inputs[i] = service.VariantInput{
			Name:       r.Name,
			SKU:        r.SKU,
			Price:      r.Price,
			Quantity:   r.Quantity,
			Attributes: r.Attributes,
			Image:      r.Image,
			IsActive:   r.IsActive,
		}
	}
	return inputs
}

// Create adds a product, optionally with variants
// POST /api/v1/admin/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, SKU and price are required")
		return
	}

	product, err := ctrl.productService.CreateProduct(service.CreateProductInput{
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		SKU:               req.SKU,
		Price:             req.Price,
		CompareAtPrice:    req.CompareAtPrice,
		CostPrice:         req.CostPrice,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		Weight:            req.Weight,
		Status:            req.Status,
		Images:            req.Images,
		CategoryID:        req.CategoryID,
		Metadata:          req.Metadata,
		Variants:          variantInputs(req.Variants),
		TagIDs:            req.TagIDs,
	})
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": newProductResponse(product),
	})
}

// Update modifies a product
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, service.UpdateProductInput{
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		SKU:               req.SKU,
		Price:             req.Price,
		CompareAtPrice:    req.CompareAtPrice,
		CostPrice:         req.CostPrice,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		Weight:            req.Weight,
		Status:            req.Status,
		Images:            req.Images,
		CategoryID:        req.CategoryID,
		ClearCategory:     req.ClearCategory,
		Metadata:          req.Metadata,
	})
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": newProductResponse(product),
	})
}

// UpdateQuantity sets the product-level stock quantity
// PATCH /api/v1/admin/products/:id/quantity
func (ctrl *ProductController) UpdateQuantity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity is required")
		return
	}

	product, err := ctrl.productService.UpdateQuantity(id, *req.Quantity)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": newProductResponse(product),
	})
}

// UpdateStatus changes the product's lifecycle status
// PATCH /api/v1/admin/products/:id/status
func (ctrl *ProductController) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid status is required")
		return
	}

	product, err := ctrl.productService.UpdateStatus(id, req.Status)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": newProductResponse(product),
	})
}

// Delete soft deletes a product
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// Restore brings back a soft deleted product
// POST /api/v1/admin/products/:id/restore
func (ctrl *ProductController) Restore(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.RestoreProduct(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": newProductResponse(product),
	})
}

// BulkDelete soft deletes several products, best effort
// POST /api/v1/admin/products/bulk-delete
func (ctrl *ProductController) BulkDelete(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	result := ctrl.productService.BulkDeleteProducts(req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// BulkRestore brings back several soft deleted products, best effort
// POST /api/v1/admin/products/bulk-restore
func (ctrl *ProductController) BulkRestore(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list is required")
		return
	}

	result := ctrl.productService.BulkRestoreProducts(req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// BulkUpdateStatus sets the status on several products, best effort
// POST /api/v1/admin/products/bulk-status
func (ctrl *ProductController) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-empty ids list and a valid status are required")
		return
	}

	result := ctrl.productService.BulkUpdateStatus(req.IDs, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// ListVariants returns a product's variants
// GET /api/v1/admin/products/:id/variants
func (ctrl *ProductController) ListVariants(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.productService.ListVariants(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"variants": variants,
	})
}

// AddVariant attaches a new variant to a product
// POST /api/v1/admin/products/:id/variants
func (ctrl *ProductController) AddVariant(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Variant name, SKU and price are required")
		return
	}

	variant, err := ctrl.productService.AddVariant(id, service.VariantInput{
		Name:       req.Name,
		SKU:        req.SKU,
		Price:      req.Price,
		Quantity:   req.Quantity,
		Attributes: req.Attributes,
		Image:      req.Image,
		IsActive:   req.IsActive,
	})
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"variant": variant,
	})
}

// UpdateVariant modifies a variant
// PUT /api/v1/admin/products/:id/variants/:variantId
func (ctrl *ProductController) UpdateVariant(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseUUIDParam(c, "variantId")
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid variant payload")
		return
	}

	variant, err := ctrl.productService.UpdateVariant(id, variantID, service.UpdateVariantInput{
		Name:       req.Name,
		SKU:        req.SKU,
		Price:      req.Price,
		Quantity:   req.Quantity,
		Attributes: req.Attributes,
		Image:      req.Image,
		IsActive:   req.IsActive,
	})
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"variant": variant,
	})
}

// UpdateVariantQuantity sets a variant's stock quantity
// PATCH /api/v1/admin/products/:id/variants/:variantId/quantity
func (ctrl *ProductController) UpdateVariantQuantity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseUUIDParam(c, "variantId")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity is required")
		return
	}

	variant, err := ctrl.productService.UpdateVariantQuantity(id, variantID, *req.Quantity)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"variant": variant,
	})
}

// DeleteVariant removes a variant
// DELETE /api/v1/admin/products/:id/variants/:variantId
func (ctrl *ProductController) DeleteVariant(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseUUIDParam(c, "variantId")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteVariant(id, variantID); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Variant deleted",
	})
}
