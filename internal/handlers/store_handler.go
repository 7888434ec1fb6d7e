package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
	"merchant-console/internal/storectx"
)

// StoreBackend is the part of the backend client used for store settings
type StoreBackend interface {
	RegisterStore(ctx context.Context, info models.StoreInfo) (*models.RegisterStoreResponse, error)
	GetBusinessHours(ctx context.Context, storeID int64) (*models.BusinessHours, error)
	UpdateBusinessHours(ctx context.Context, storeID int64, hours models.BusinessHours) error
	UpdateWorkCondition(ctx context.Context, storeID int64, condition models.WorkCondition) error
	UpdateExposure(ctx context.Context, storeID int64, status models.StoreStatus) error
}

// StoreEventPublisher announces store setting changes
type StoreEventPublisher interface {
	PublishStoreUpdated(ctx context.Context, storeID int64, ownerID, change string, value interface{}) error
}

type StoreHandler struct {
	backend   StoreBackend
	stores    *storectx.Context
	publisher StoreEventPublisher
	logger    *logrus.Logger
}

func NewStoreHandler(backend StoreBackend, stores *storectx.Context, publisher StoreEventPublisher, logger *logrus.Logger) *StoreHandler {
	return &StoreHandler{
		backend:   backend,
		stores:    stores,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *StoreHandler) contextError(c *gin.Context, err error) {
	h.logger.WithError(err).WithField("owner_id", middleware.GetOwnerID(c)).Error("store context failure")
	c.JSON(http.StatusInternalServerError, models.NewError("STORE_CONTEXT_ERROR", "Failed to access store context"))
}

// remember mirrors a confirmed change into the owner's store context and
// announces it. Failures here are logged; the backend already accepted it.
func (h *StoreHandler) remember(c *gin.Context, change string, value interface{}, patch models.StoreInfoPatch) {
	ownerID := middleware.GetOwnerID(c)
	storeID := middleware.GetStoreID(c)
	log := h.logger.WithFields(logrus.Fields{"owner_id": ownerID, "store_id": storeID, "change": change})

	if _, err := h.stores.Update(c.Request.Context(), ownerID, patch); err != nil {
		log.WithError(err).Warn("Failed to update store context")
	}
	if h.publisher != nil {
		if err := h.publisher.PublishStoreUpdated(c.Request.Context(), storeID, ownerID, change, value); err != nil {
			log.WithError(err).Warn("Failed to publish store updated event")
		}
	}
}

// GetContext returns the owner's in-progress store profile
// @Summary Get the store context
// @Tags store
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /store/context [get]
func (h *StoreHandler) GetContext(c *gin.Context) {
	state, err := h.stores.Get(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		h.contextError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: state})
}

// PatchContext merges a partial profile into the store context
// @Summary Update the store context
// @Tags store
// @Accept json
// @Param patch body models.StoreInfoPatch true "Fields to change"
// @Router /store/context [patch]
func (h *StoreHandler) PatchContext(c *gin.Context) {
	var patch models.StoreInfoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		validationError(c, err)
		return
	}
	if patch.TimeSlots != nil {
		hours := models.BusinessHours{TimeSlots: patch.TimeSlots}
		if err := hours.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_BUSINESS_HOURS", err.Error(), "timeSlots"))
			return
		}
	}
	if patch.WorkCondition != nil && !patch.WorkCondition.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_WORK_CONDITION", "workCondition must be OPEN or CLOSE", "workCondition"))
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_STATUS", "status must be ACTIVE or INACTIVE", "status"))
		return
	}

	info, err := h.stores.Update(c.Request.Context(), middleware.GetOwnerID(c), patch)
	if err != nil {
		h.contextError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: info})
}

// RegisterStore sends the collected profile to the backend and records the new store id
// @Summary Register the store
// @Tags store
// @Accept json
// @Param patch body models.StoreInfoPatch false "Last fields to merge before registering"
// @Success 201 {object} models.SuccessResponse
// @Router /store/register [post]
func (h *StoreHandler) RegisterStore(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var patch models.StoreInfoPatch
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&patch); err != nil {
			validationError(c, err)
			return
		}
	}

	state, err := h.stores.Get(c.Request.Context(), ownerID)
	if err != nil {
		h.contextError(c, err)
		return
	}
	if state.IsStoreCreated {
		c.JSON(http.StatusConflict, models.NewError("STORE_EXISTS", "Store is already registered"))
		return
	}

	info, err := h.stores.Update(c.Request.Context(), ownerID, patch)
	if err != nil {
		h.contextError(c, err)
		return
	}
	if info.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldError("VALIDATION_ERROR", "Store name is required", "name"))
		return
	}

	resp, err := h.backend.RegisterStore(backendCtx(c), *info)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	if err := h.stores.SetStoreID(c.Request.Context(), ownerID, resp.StoreID); err != nil {
		h.contextError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"owner_id": ownerID, "store_id": resp.StoreID}).Info("Store registered")
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    resp,
		Message: "Store registered",
	})
}

// GetBusinessHours returns the store's weekly hours from the backend
// @Summary Get business hours
// @Tags store
// @Produce json
// @Router /store/business-hours [get]
func (h *StoreHandler) GetBusinessHours(c *gin.Context) {
	hours, err := h.backend.GetBusinessHours(backendCtx(c), middleware.GetStoreID(c))
	if err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: hours})
}

// UpdateBusinessHours replaces the store's weekly hours
// @Summary Update business hours
// @Tags store
// @Accept json
// @Param hours body models.BusinessHours true "Business hours"
// @Router /store/business-hours [put]
func (h *StoreHandler) UpdateBusinessHours(c *gin.Context) {
	var hours models.BusinessHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		validationError(c, err)
		return
	}
	if err := hours.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_BUSINESS_HOURS", err.Error(), "timeSlots"))
		return
	}

	if err := h.backend.UpdateBusinessHours(backendCtx(c), middleware.GetStoreID(c), hours); err != nil {
		respondBackendError(c, err)
		return
	}

	mode := hours.Mode
	h.remember(c, "businessHours", hours, models.StoreInfoPatch{
		BusinessHoursMode: &mode,
		TimeSlots:         hours.TimeSlots,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: hours, Message: "Business hours updated"})
}

// UpdateWorkCondition opens or closes the store for orders
// @Summary Update work condition
// @Tags store
// @Accept json
// @Param condition body models.WorkConditionRequest true "OPEN or CLOSE"
// @Router /store/work-condition [put]
func (h *StoreHandler) UpdateWorkCondition(c *gin.Context) {
	var req models.WorkConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if !req.WorkCondition.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_WORK_CONDITION", "workCondition must be OPEN or CLOSE", "workCondition"))
		return
	}

	if err := h.backend.UpdateWorkCondition(backendCtx(c), middleware.GetStoreID(c), req.WorkCondition); err != nil {
		respondBackendError(c, err)
		return
	}

	h.remember(c, "workCondition", req.WorkCondition, models.StoreInfoPatch{WorkCondition: &req.WorkCondition})
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: req, Message: "Work condition updated"})
}

// UpdateExposure shows or hides the store to customers
// @Summary Update store exposure
// @Tags store
// @Accept json
// @Param status body models.ExposureRequest true "ACTIVE or INACTIVE"
// @Router /store/status [put]
func (h *StoreHandler) UpdateExposure(c *gin.Context) {
	var req models.ExposureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_STATUS", "status must be ACTIVE or INACTIVE", "status"))
		return
	}

	if err := h.backend.UpdateExposure(backendCtx(c), middleware.GetStoreID(c), req.Status); err != nil {
		respondBackendError(c, err)
		return
	}

	h.remember(c, "status", req.Status, models.StoreInfoPatch{Status: &req.Status})
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: req, Message: "Store status updated"})
}
