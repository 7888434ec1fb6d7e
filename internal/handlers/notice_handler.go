package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
	"merchant-console/internal/repository"
)

type NoticeHandler struct {
	repo   *repository.NoticeRepository
	logger *logrus.Logger
}

func NewNoticeHandler(repo *repository.NoticeRepository, logger *logrus.Logger) *NoticeHandler {
	return &NoticeHandler{repo: repo, logger: logger}
}

func (h *NoticeHandler) noticeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_ID", "Invalid notice ID", "id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *NoticeHandler) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.NewError("NOT_FOUND", "Notice not found"))
		return
	}
	h.logger.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, models.NewError("DATABASE_ERROR", message))
}

// ListNotices lists the store's notices
// @Summary List notices
// @Tags notices
// @Produce json
// @Param search query string false "Title contains"
// @Router /notices [get]
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	notices, err := h.repo.List(c.Request.Context(), middleware.GetStoreID(c), c.Query("search"))
	if err != nil {
		h.fail(c, err, "Failed to list notices")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": notices, "total": len(notices)})
}

// GetNotice returns one notice
// @Summary Get a notice
// @Tags notices
// @Param id path string true "Notice ID"
// @Router /notices/{id} [get]
func (h *NoticeHandler) GetNotice(c *gin.Context) {
	id, ok := h.noticeID(c)
	if !ok {
		return
	}
	notice, err := h.repo.Get(c.Request.Context(), middleware.GetStoreID(c), id)
	if err != nil {
		h.fail(c, err, "Failed to get notice")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: notice})
}

// CreateNotice adds a notice, active unless told otherwise
// @Summary Create a notice
// @Tags notices
// @Accept json
// @Param notice body models.CreateNoticeRequest true "Notice"
// @Success 201 {object} models.SuccessResponse
// @Router /notices [post]
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var req models.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	notice := &models.Notice{
		StoreID:  middleware.GetStoreID(c),
		Title:    req.Title,
		Content:  req.Content,
		IsActive: true,
	}
	if req.IsActive != nil {
		notice.IsActive = *req.IsActive
	}

	if err := h.repo.Create(c.Request.Context(), notice); err != nil {
		h.fail(c, err, "Failed to create notice")
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: notice, Message: "Notice created"})
}

// UpdateNotice changes the given fields of a notice
// @Summary Update a notice
// @Tags notices
// @Accept json
// @Param id path string true "Notice ID"
// @Param notice body models.UpdateNoticeRequest true "Fields to change"
// @Router /notices/{id} [put]
func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	id, ok := h.noticeID(c)
	if !ok {
		return
	}
	var req models.UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	notice, err := h.repo.Update(c.Request.Context(), middleware.GetStoreID(c), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update notice")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: notice, Message: "Notice updated"})
}

// DeleteNotice removes a notice
// @Summary Delete a notice
// @Tags notices
// @Param id path string true "Notice ID"
// @Router /notices/{id} [delete]
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, ok := h.noticeID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), middleware.GetStoreID(c), id); err != nil {
		h.fail(c, err, "Failed to delete notice")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Notice deleted"})
}

// BulkDeleteNotices removes several notices at once
// @Summary Delete notices
// @Tags notices
// @Accept json
// @Param ids body models.BulkDeleteNoticesRequest true "Notice IDs"
// @Router /notices/bulk-delete [post]
func (h *NoticeHandler) BulkDeleteNotices(c *gin.Context) {
	var req models.BulkDeleteNoticesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	deleted, err := h.repo.BulkDelete(c.Request.Context(), middleware.GetStoreID(c), req.IDs)
	if err != nil {
		h.fail(c, err, "Failed to delete notices")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
