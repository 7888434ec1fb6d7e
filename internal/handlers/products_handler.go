package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
)

// ProductsBackend is the part of the backend client used for products
type ProductsBackend interface {
	CreateSingleProduct(ctx context.Context, storeID int64, req models.CreateSingleProductRequest) error
	GetProduct(ctx context.Context, storeID, productID int64) (*models.Product, error)
	ListProducts(ctx context.Context, storeID int64) ([]models.Product, error)
}

type ProductsHandler struct {
	backend ProductsBackend
}

func NewProductsHandler(backend ProductsBackend) *ProductsHandler {
	return &ProductsHandler{backend: backend}
}

// CreateSingleProduct registers a product without options
// @Summary Register a single product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.SingleProductForm true "Product"
// @Success 201 {object} models.SuccessResponse
// @Router /products/single [post]
func (h *ProductsHandler) CreateSingleProduct(c *gin.Context) {
	var form models.SingleProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		validationError(c, err)
		return
	}

	req := form.ToRequest()
	if err := h.backend.CreateSingleProduct(backendCtx(c), middleware.GetStoreID(c), req); err != nil {
		respondBackendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    req,
		Message: "Product registered",
	})
}

// GetProduct returns one product of the store
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Router /products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	productID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	product, err := h.backend.GetProduct(backendCtx(c), middleware.GetStoreID(c), productID)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: product})
}

// ListProducts lists the store's products filtered like the console search panel
// @Summary List products
// @Tags products
// @Produce json
// @Param status query string false "Status, ALL for every status"
// @Param search query string false "Name contains"
// @Param category query string false "Display category"
// @Param storeCategory query string false "Store category"
// @Success 200 {object} models.SuccessResponse
// @Router /products [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		validationError(c, err)
		return
	}

	products, err := h.backend.ListProducts(backendCtx(c), middleware.GetStoreID(c))
	if err != nil {
		respondBackendError(c, err)
		return
	}

	filtered := models.FilterProducts(products, filter)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    filtered,
		"total":   len(products),
		"matched": len(filtered),
	})
}
