package clients

import (
	"context"
	"net/http"

	"merchant-console/internal/models"
)

// CreateSingleProduct registers a product without options
func (c *BackendClient) CreateSingleProduct(ctx context.Context, storeID int64, req models.CreateSingleProductRequest) error {
	return c.doRequest(ctx, http.MethodPost, storePath(storeID, "/products/single"), nil, req, nil,
		"failed to register product")
}

// CreateOptionProduct registers a product together with its option matrix
func (c *BackendClient) CreateOptionProduct(ctx context.Context, storeID int64, req models.CreateOptionProductRequest) error {
	return c.doRequest(ctx, http.MethodPost, storePath(storeID, "/products"), nil, req, nil,
		"failed to register product")
}

func (c *BackendClient) GetProduct(ctx context.Context, storeID, productID int64) (*models.Product, error) {
	var product models.Product
	if err := c.doRequest(ctx, http.MethodGet, storePath(storeID, "/products/%d", productID), nil, nil, &product,
		"failed to load product"); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *BackendClient) ListProducts(ctx context.Context, storeID int64) ([]models.Product, error) {
	products := []models.Product{}
	if err := c.doRequest(ctx, http.MethodGet, storePath(storeID, "/products"), nil, nil, &products,
		"failed to load products"); err != nil {
		return nil, err
	}
	return products, nil
}
