package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
)

const (
	testOwner = "42"
	testStore = int64(7)
)

type MockProductsBackend struct {
	mock.Mock
}

func (m *MockProductsBackend) CreateSingleProduct(ctx context.Context, storeID int64, req models.CreateSingleProductRequest) error {
	args := m.Called(ctx, storeID, req)
	return args.Error(0)
}

func (m *MockProductsBackend) CreateOptionProduct(ctx context.Context, storeID int64, req models.CreateOptionProductRequest) error {
	args := m.Called(ctx, storeID, req)
	return args.Error(0)
}

func (m *MockProductsBackend) GetProduct(ctx context.Context, storeID, productID int64) (*models.Product, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductsBackend) ListProducts(ctx context.Context, storeID int64) ([]models.Product, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

type MockStoreBackend struct {
	mock.Mock
}

func (m *MockStoreBackend) RegisterStore(ctx context.Context, info models.StoreInfo) (*models.RegisterStoreResponse, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RegisterStoreResponse), args.Error(1)
}

func (m *MockStoreBackend) GetBusinessHours(ctx context.Context, storeID int64) (*models.BusinessHours, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessHours), args.Error(1)
}

func (m *MockStoreBackend) UpdateBusinessHours(ctx context.Context, storeID int64, hours models.BusinessHours) error {
	args := m.Called(ctx, storeID, hours)
	return args.Error(0)
}

func (m *MockStoreBackend) UpdateWorkCondition(ctx context.Context, storeID int64, condition models.WorkCondition) error {
	args := m.Called(ctx, storeID, condition)
	return args.Error(0)
}

func (m *MockStoreBackend) UpdateExposure(ctx context.Context, storeID int64, status models.StoreStatus) error {
	args := m.Called(ctx, storeID, status)
	return args.Error(0)
}

type MockStorePublisher struct {
	mock.Mock
}

func (m *MockStorePublisher) PublishStoreUpdated(ctx context.Context, storeID int64, ownerID, change string, value interface{}) error {
	args := m.Called(ctx, storeID, ownerID, change, value)
	return args.Error(0)
}

// Helper to setup test router
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withIdentity stands in for the auth and store middlewares
func withIdentity(ownerID string, storeID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.KeyOwnerID, ownerID)
		if storeID > 0 {
			c.Set(middleware.KeyStoreID, storeID)
		}
		c.Set(middleware.KeyBackendToken, "backend-token")
		c.Next()
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// envelope decodes a SuccessResponse whose data has a known shape
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func newAuthedRequest(t *testing.T, method, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
