package clients

import (
	"context"
	"net/http"

	"merchant-console/internal/models"
)

// RegisterStore creates the store from the console's store profile
func (c *BackendClient) RegisterStore(ctx context.Context, info models.StoreInfo) (*models.RegisterStoreResponse, error) {
	var resp models.RegisterStoreResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/stores", nil, info, &resp,
		"failed to register store"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *BackendClient) GetBusinessHours(ctx context.Context, storeID int64) (*models.BusinessHours, error) {
	var hours models.BusinessHours
	if err := c.doRequest(ctx, http.MethodGet, storePath(storeID, "/business-hours"), nil, nil, &hours,
		"failed to load business hours"); err != nil {
		return nil, err
	}
	return &hours, nil
}

func (c *BackendClient) UpdateBusinessHours(ctx context.Context, storeID int64, hours models.BusinessHours) error {
	return c.doRequest(ctx, http.MethodPut, storePath(storeID, "/business-hours"), nil, hours, nil,
		"failed to update business hours")
}

func (c *BackendClient) UpdateWorkCondition(ctx context.Context, storeID int64, condition models.WorkCondition) error {
	return c.doRequest(ctx, http.MethodPut, storePath(storeID, "/work-condition"), nil,
		models.WorkConditionRequest{WorkCondition: condition}, nil,
		"failed to change work condition")
}

func (c *BackendClient) UpdateExposure(ctx context.Context, storeID int64, status models.StoreStatus) error {
	return c.doRequest(ctx, http.MethodPut, storePath(storeID, "/status"), nil,
		models.ExposureRequest{Status: status}, nil,
		"failed to change store exposure")
}

// ListHomeCategories returns the store's home categories
func (c *BackendClient) ListHomeCategories(ctx context.Context, storeID int64) ([]models.HomeCategory, error) {
	categories := []models.HomeCategory{}
	if err := c.doRequest(ctx, http.MethodGet, storePath(storeID, "/categories"), nil, nil, &categories,
		"failed to load home categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *BackendClient) CreateHomeCategory(ctx context.Context, storeID int64, req models.HomeCategoryRequest) error {
	return c.doRequest(ctx, http.MethodPost, storePath(storeID, "/categories"), nil, req, nil,
		"failed to create home category")
}

func (c *BackendClient) UpdateHomeCategory(ctx context.Context, storeID, categoryID int64, req models.HomeCategoryRequest) error {
	return c.doRequest(ctx, http.MethodPut, storePath(storeID, "/categories/%d", categoryID), nil, req, nil,
		"failed to update home category")
}

func (c *BackendClient) DeleteHomeCategory(ctx context.Context, storeID, categoryID int64) error {
	return c.doRequest(ctx, http.MethodDelete, storePath(storeID, "/categories/%d", categoryID), nil, nil, nil,
		"failed to delete home category")
}
