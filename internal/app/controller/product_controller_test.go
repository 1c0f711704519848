package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/internal/app/service"
	"github.com/ikkim/udonggeum-backend/internal/db"
)

func setupProductControllerTest(t *testing.T) (*ProductController, *gin.Engine, service.ProductService) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewProductVariantRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	productService := service.NewProductService(productRepo, variantRepo, categoryRepo, tagRepo)
	productController := NewProductController(productService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return productController, router, productService
}

func createProductViaService(t *testing.T, svc service.ProductService, name, sku string, quantity int) {
	t.Helper()
	_, err := svc.CreateProduct(service.CreateProductInput{
		Name:     name,
		SKU:      sku,
		Price:    decimal.NewFromInt(150000),
		Quantity: quantity,
	})
	require.NoError(t, err)
}

func TestProductController_List(t *testing.T) {
	controller, router, svc := setupProductControllerTest(t)

	createProductViaService(t, svc, "Hand Woven Rug", "RUG-001", 10)
	createProductViaService(t, svc, "Copper Tray", "TRAY-001", 0)

	router.GET("/products", controller.List)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success  bool `json:"success"`
		Products []struct {
			Name     string `json:"name"`
			InStock  bool   `json:"in_stock"`
			LowStock bool   `json:"low_stock"`
		} `json:"products"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.True(t, response.Success)
	assert.Len(t, response.Products, 2)
	assert.Equal(t, int64(2), response.Meta.Total)

	stock := map[string]bool{}
	for _, p := range response.Products {
		stock[p.Name] = p.InStock
	}
	assert.True(t, stock["Hand Woven Rug"])
	assert.False(t, stock["Copper Tray"])
}

func TestProductController_Create(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.POST("/products", controller.Create)

	body := map[string]interface{}{
		"name":     "Saffron Pack",
		"sku":      "SAF-001",
		"price":    "890000",
		"quantity": 3,
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool `json:"success"`
		Product struct {
			Slug     string `json:"slug"`
			InStock  bool   `json:"in_stock"`
			LowStock bool   `json:"low_stock"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "saffron-pack", response.Product.Slug)
	assert.True(t, response.Product.InStock)
	assert.True(t, response.Product.LowStock)
}

func TestProductController_Create_DuplicateSKU(t *testing.T) {
	controller, router, svc := setupProductControllerTest(t)

	createProductViaService(t, svc, "First Product", "DUP-001", 1)

	router.POST("/products", controller.Create)

	body := map[string]interface{}{
		"name":  "Second Product",
		"sku":   "DUP-001",
		"price": "10000",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, "PRODUCT_SKU_EXISTS", response.Error)
}

func TestProductController_Create_MissingFields(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.POST("/products", controller.Create)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader([]byte(`{"name":"No SKU"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_Get_NotFound(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.GET("/products/:id", controller.Get)

	req := httptest.NewRequest(http.MethodGet, "/products/5f8ff4a1-98a6-4a12-a162-6e1e3b8f3c11", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_Get_InvalidID(t *testing.T) {
	controller, router, _ := setupProductControllerTest(t)

	router.GET("/products/:id", controller.Get)

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_AddVariant(t *testing.T) {
	controller, router, svc := setupProductControllerTest(t)

	product, err := svc.CreateProduct(service.CreateProductInput{
		Name:  "Tea Set",
		SKU:   "TEA-001",
		Price: decimal.NewFromInt(420000),
	})
	require.NoError(t, err)

	router.POST("/products/:id/variants", controller.AddVariant)

	body := map[string]interface{}{
		"name":     "Tea Set / 6 cups",
		"sku":      "TEA-001-6",
		"price":    "420000",
		"quantity": 4,
	}
	payload, _ := json.Marshal(body)

	url := fmt.Sprintf("/products/%s/variants", product.ID)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	updated, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasVariants)
	assert.Len(t, updated.Variants, 1)
}

func TestProductController_BulkUpdateStatus(t *testing.T) {
	controller, router, svc := setupProductControllerTest(t)

	first, err := svc.CreateProduct(service.CreateProductInput{
		Name: "Bulk A", SKU: "BULK-A", Price: decimal.NewFromInt(1000), Quantity: 1,
	})
	require.NoError(t, err)
	second, err := svc.CreateProduct(service.CreateProductInput{
		Name: "Bulk B", SKU: "BULK-B", Price: decimal.NewFromInt(1000), Quantity: 1,
	})
	require.NoError(t, err)

	router.POST("/products/bulk-status", controller.BulkUpdateStatus)

	body := map[string]interface{}{
		"ids":    []string{first.ID.String(), second.ID.String(), "1d2f75a0-0000-4000-8000-000000000000"},
		"status": "active",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/products/bulk-status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		Result  struct {
			Success int `json:"success"`
			Failed  int `json:"failed"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Result.Success)
	assert.Equal(t, 1, response.Result.Failed)
}
