package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
)

// CategoryBackend serves the marketplace display categories
type CategoryBackend interface {
	GetCategoryTree(ctx context.Context) ([]models.Category, error)
	GetSubCategories(ctx context.Context, parentID int64) ([]models.Category, error)
}

// HomeCategoryBackend manages a store's own categories
type HomeCategoryBackend interface {
	ListHomeCategories(ctx context.Context, storeID int64) ([]models.HomeCategory, error)
	CreateHomeCategory(ctx context.Context, storeID int64, req models.HomeCategoryRequest) error
	UpdateHomeCategory(ctx context.Context, storeID, categoryID int64, req models.HomeCategoryRequest) error
	DeleteHomeCategory(ctx context.Context, storeID, categoryID int64) error
}

type CategoryHandler struct {
	categories CategoryBackend
	home       HomeCategoryBackend
}

func NewCategoryHandler(categories CategoryBackend, home HomeCategoryBackend) *CategoryHandler {
	return &CategoryHandler{categories: categories, home: home}
}

// GetCategoryTree returns the display category tree
// @Summary Get display categories
// @Tags categories
// @Produce json
// @Param parentId query int false "Only the children of this category"
// @Router /categories [get]
func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	if raw := c.Query("parentId"); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_ID", "Invalid parentId", "parentId"))
			return
		}
		children, err := h.categories.GetSubCategories(backendCtx(c), parentID)
		if err != nil {
			respondBackendError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: children})
		return
	}

	tree, err := h.categories.GetCategoryTree(backendCtx(c))
	if err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: tree})
}

// ListHomeCategories returns the store's own categories
// @Summary List store categories
// @Tags categories
// @Produce json
// @Router /store/categories [get]
func (h *CategoryHandler) ListHomeCategories(c *gin.Context) {
	list, err := h.home.ListHomeCategories(backendCtx(c), middleware.GetStoreID(c))
	if err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: list})
}

// CreateHomeCategory adds a store category
// @Summary Create a store category
// @Tags categories
// @Accept json
// @Param category body models.HomeCategoryRequest true "Category"
// @Router /store/categories [post]
func (h *CategoryHandler) CreateHomeCategory(c *gin.Context) {
	var req models.HomeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if err := h.home.CreateHomeCategory(backendCtx(c), middleware.GetStoreID(c), req); err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: req, Message: "Category created"})
}

// UpdateHomeCategory renames or reorders a store category
// @Summary Update a store category
// @Tags categories
// @Accept json
// @Param id path int true "Category ID"
// @Router /store/categories/{id} [put]
func (h *CategoryHandler) UpdateHomeCategory(c *gin.Context) {
	categoryID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req models.HomeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if err := h.home.UpdateHomeCategory(backendCtx(c), middleware.GetStoreID(c), categoryID, req); err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: req, Message: "Category updated"})
}

// DeleteHomeCategory removes a store category
// @Summary Delete a store category
// @Tags categories
// @Param id path int true "Category ID"
// @Router /store/categories/{id} [delete]
func (h *CategoryHandler) DeleteHomeCategory(c *gin.Context) {
	categoryID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.home.DeleteHomeCategory(backendCtx(c), middleware.GetStoreID(c), categoryID); err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Category deleted"})
}
