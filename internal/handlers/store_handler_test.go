package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"merchant-console/internal/clients"
	"merchant-console/internal/models"
	"merchant-console/internal/storectx"
)

func setupStoreRouter(backend StoreBackend, publisher StoreEventPublisher, storeID int64) (*gin.Engine, *storectx.Context) {
	router := setupTestRouter()
	stores := storectx.New(storectx.NewMemoryBackend(), quietLogger())
	h := NewStoreHandler(backend, stores, publisher, quietLogger())

	g := router.Group("/store", withIdentity(testOwner, storeID))
	g.GET("/context", h.GetContext)
	g.PATCH("/context", h.PatchContext)
	g.POST("/register", h.RegisterStore)
	g.GET("/business-hours", h.GetBusinessHours)
	g.PUT("/business-hours", h.UpdateBusinessHours)
	g.PUT("/work-condition", h.UpdateWorkCondition)
	g.PUT("/status", h.UpdateExposure)
	return router, stores
}

func strPtr(s string) *string { return &s }

func TestPatchContext_MergesOverDefaults(t *testing.T) {
	router, _ := setupStoreRouter(new(MockStoreBackend), nil, 0)

	w := doJSON(t, router, http.MethodPatch, "/store/context", models.StoreInfoPatch{Name: strPtr("Corner Bakery")})
	require.Equal(t, http.StatusOK, w.Code)
	var resp envelope[models.StoreInfo]
	decode(t, w, &resp)
	assert.Equal(t, "Corner Bakery", resp.Data.Name)
	assert.Len(t, resp.Data.TimeSlots, 7)
	assert.Equal(t, models.WorkConditionOpen, resp.Data.WorkCondition)

	w = doJSON(t, router, http.MethodGet, "/store/context", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state envelope[storectx.State]
	decode(t, w, &state)
	require.NotNil(t, state.Data.StoreInfo)
	assert.Equal(t, "Corner Bakery", state.Data.StoreInfo.Name)
	assert.False(t, state.Data.IsStoreCreated)
}

func TestPatchContext_RejectsBadHours(t *testing.T) {
	router, _ := setupStoreRouter(new(MockStoreBackend), nil, 0)
	patch := models.StoreInfoPatch{TimeSlots: map[models.DayOfWeek]models.TimeSlot{
		models.Monday: {StartTime: "10:00", EndTime: "10:00"},
	}}

	w := doJSON(t, router, http.MethodPatch, "/store/context", patch)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterStore(t *testing.T) {
	backend := new(MockStoreBackend)
	backend.On("RegisterStore", mock.Anything, mock.MatchedBy(func(info models.StoreInfo) bool {
		return info.Name == "Corner Bakery" && info.Tel == "02-123-4567"
	})).Return(&models.RegisterStoreResponse{StoreID: 99}, nil)
	router, stores := setupStoreRouter(backend, nil, 0)

	doJSON(t, router, http.MethodPatch, "/store/context", models.StoreInfoPatch{Name: strPtr("Corner Bakery")})
	w := doJSON(t, router, http.MethodPost, "/store/register", models.StoreInfoPatch{Tel: strPtr("02-123-4567")})
	require.Equal(t, http.StatusCreated, w.Code)

	storeID, err := stores.StoreID(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(99), storeID)

	w = doJSON(t, router, http.MethodPost, "/store/register", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	backend.AssertNumberOfCalls(t, "RegisterStore", 1)
}

func TestRegisterStore_NameRequired(t *testing.T) {
	backend := new(MockStoreBackend)
	router, _ := setupStoreRouter(backend, nil, 0)

	w := doJSON(t, router, http.MethodPost, "/store/register", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	backend.AssertNotCalled(t, "RegisterStore", mock.Anything, mock.Anything)
}

func TestRegisterStore_BackendRejects(t *testing.T) {
	backend := new(MockStoreBackend)
	backend.On("RegisterStore", mock.Anything, mock.Anything).
		Return(nil, &clients.APIError{StatusCode: http.StatusBadRequest, Message: "invalid business number"})
	router, stores := setupStoreRouter(backend, nil, 0)

	w := doJSON(t, router, http.MethodPost, "/store/register", models.StoreInfoPatch{Name: strPtr("Corner Bakery")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := stores.StoreID(context.Background(), testOwner)
	assert.ErrorIs(t, err, storectx.ErrNoStore)
}

func TestUpdateBusinessHours(t *testing.T) {
	hours := models.BusinessHours{
		Mode: models.BusinessHoursPerDay,
		TimeSlots: map[models.DayOfWeek]models.TimeSlot{
			models.Monday: {StartTime: "09:00", EndTime: "18:00"},
			models.Sunday: {},
		},
	}
	backend := new(MockStoreBackend)
	backend.On("UpdateBusinessHours", mock.Anything, testStore, hours).Return(nil)
	publisher := new(MockStorePublisher)
	publisher.On("PublishStoreUpdated", mock.Anything, testStore, testOwner, "businessHours", mock.Anything).Return(nil)
	router, stores := setupStoreRouter(backend, publisher, testStore)

	w := doJSON(t, router, http.MethodPut, "/store/business-hours", hours)
	require.Equal(t, http.StatusOK, w.Code)
	backend.AssertExpectations(t)
	publisher.AssertExpectations(t)

	state, err := stores.Get(context.Background(), testOwner)
	require.NoError(t, err)
	require.NotNil(t, state.StoreInfo)
	assert.Equal(t, hours.TimeSlots, state.StoreInfo.TimeSlots)
}

func TestUpdateBusinessHours_Invalid(t *testing.T) {
	backend := new(MockStoreBackend)
	router, _ := setupStoreRouter(backend, nil, testStore)

	w := doJSON(t, router, http.MethodPut, "/store/business-hours", models.BusinessHours{
		TimeSlots: map[models.DayOfWeek]models.TimeSlot{models.Friday: {StartTime: "9:00", EndTime: "18:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	backend.AssertNotCalled(t, "UpdateBusinessHours", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateWorkCondition(t *testing.T) {
	backend := new(MockStoreBackend)
	backend.On("UpdateWorkCondition", mock.Anything, testStore, models.WorkConditionClose).Return(nil)
	router, stores := setupStoreRouter(backend, nil, testStore)

	w := doJSON(t, router, http.MethodPut, "/store/work-condition", models.WorkConditionRequest{WorkCondition: "SLEEP"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/store/work-condition", models.WorkConditionRequest{WorkCondition: models.WorkConditionClose})
	require.Equal(t, http.StatusOK, w.Code)

	state, err := stores.Get(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.WorkConditionClose, state.StoreInfo.WorkCondition)
}

func TestUpdateExposure(t *testing.T) {
	backend := new(MockStoreBackend)
	backend.On("UpdateExposure", mock.Anything, testStore, models.StoreStatusInactive).Return(nil)
	publisher := new(MockStorePublisher)
	publisher.On("PublishStoreUpdated", mock.Anything, testStore, testOwner, "status", models.StoreStatusInactive).Return(nil)
	router, stores := setupStoreRouter(backend, publisher, testStore)

	w := doJSON(t, router, http.MethodPut, "/store/status", models.ExposureRequest{Status: models.StoreStatusInactive})
	require.Equal(t, http.StatusOK, w.Code)
	publisher.AssertExpectations(t)

	state, err := stores.Get(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.StoreStatusInactive, state.StoreInfo.Status)
}

func TestUpdateExposure_BackendFailureLeavesContext(t *testing.T) {
	backend := new(MockStoreBackend)
	backend.On("UpdateExposure", mock.Anything, testStore, models.StoreStatusInactive).
		Return(&clients.APIError{StatusCode: http.StatusForbidden, Message: "forbidden"})
	router, stores := setupStoreRouter(backend, nil, testStore)

	w := doJSON(t, router, http.MethodPut, "/store/status", models.ExposureRequest{Status: models.StoreStatusInactive})
	assert.Equal(t, http.StatusForbidden, w.Code)

	state, err := stores.Get(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Nil(t, state.StoreInfo)
}

func TestUpdateBusinessHours_Overnight(t *testing.T) {
	hours := models.BusinessHours{
		Mode:      models.BusinessHoursPerDay,
		TimeSlots: map[models.DayOfWeek]models.TimeSlot{models.Saturday: {StartTime: "18:00", EndTime: "02:00"}},
	}
	backend := new(MockStoreBackend)
	backend.On("UpdateBusinessHours", mock.Anything, testStore, hours).Return(nil)
	router, _ := setupStoreRouter(backend, nil, testStore)

	w := doJSON(t, router, http.MethodPut, "/store/business-hours", hours)
	assert.Equal(t, http.StatusOK, w.Code)
	backend.AssertExpectations(t)
}
