package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"merchant-console/internal/drafts"
	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
	"merchant-console/internal/optionmatrix"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DraftsHandler exposes the option product form
type DraftsHandler struct {
	service *drafts.Service
	logger  *logrus.Entry
}

func NewDraftsHandler(service *drafts.Service, logger *logrus.Logger) *DraftsHandler {
	return &DraftsHandler{service: service, logger: logger.WithField("component", "drafts-handler")}
}

type setAxesRequest struct {
	Axes []optionmatrix.Axis `json:"axes"`
}

// updateCellRequest takes the value as typed text or as a JSON number
type updateCellRequest struct {
	Field optionmatrix.Field `json:"field" binding:"required"`
	Value json.RawMessage    `json:"value"`
}

// text returns the raw cell input handed to the integer coercion
func (r updateCellRequest) text() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(r.Value, &n); err == nil {
		return n.String()
	}
	return ""
}

func (h *DraftsHandler) respond(c *gin.Context, d *drafts.Draft, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: d})
}

func (h *DraftsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, drafts.ErrTooManyAxes):
		c.JSON(http.StatusBadRequest, models.NewFieldError("TOO_MANY_AXES",
			fmt.Sprintf("At most %d option axes are allowed", h.service.MaxAxes()), "axes"))
	case errors.Is(err, drafts.ErrAxisOutOfRange):
		c.JSON(http.StatusNotFound, models.NewError("AXIS_NOT_FOUND", err.Error()))
	case errors.Is(err, optionmatrix.ErrRowOutOfRange):
		c.JSON(http.StatusNotFound, models.NewError("ROW_NOT_FOUND", err.Error()))
	case errors.Is(err, optionmatrix.ErrUnknownField):
		c.JSON(http.StatusBadRequest, models.NewFieldError("UNKNOWN_FIELD", err.Error(), "field"))
	case errors.Is(err, drafts.ErrNotApplied):
		c.JSON(http.StatusConflict, models.NewError("OPTIONS_NOT_APPLIED", "Apply the options before continuing"))
	case errors.Is(err, drafts.ErrNoVariants):
		c.JSON(http.StatusBadRequest, models.NewError("NO_VARIANTS", "The option table is empty"))
	case errors.Is(err, drafts.ErrSheetMismatch):
		c.JSON(http.StatusBadRequest, models.NewError("SHEET_MISMATCH", err.Error()))
	default:
		if isBackendError(err) {
			respondBackendError(c, err)
			return
		}
		h.logger.WithError(err).Error("draft operation failed")
		c.JSON(http.StatusInternalServerError, models.NewError("DRAFT_ERROR", "Failed to update the draft"))
	}
}

func pathIndex(c *gin.Context, name string) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_INDEX", "Invalid "+name, name))
		return 0, false
	}
	return i, true
}

// GetDraft returns the owner's option product draft
// @Summary Get the option product draft
// @Tags drafts
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /drafts/option-product [get]
func (h *DraftsHandler) GetDraft(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), middleware.GetOwnerID(c))
	h.respond(c, d, err)
}

// SaveDetails stores name, description and categories
// @Summary Save draft details
// @Tags drafts
// @Accept json
// @Param details body models.ProductDetails true "Details"
// @Router /drafts/option-product/details [put]
func (h *DraftsHandler) SaveDetails(c *gin.Context) {
	var details models.ProductDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		validationError(c, err)
		return
	}
	d, err := h.service.SaveDetails(c.Request.Context(), middleware.GetOwnerID(c), details)
	h.respond(c, d, err)
}

// SetAxes replaces the option axes
// @Summary Replace option axes
// @Tags drafts
// @Accept json
// @Router /drafts/option-product/axes [put]
func (h *DraftsHandler) SetAxes(c *gin.Context) {
	var req setAxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	d, err := h.service.SetAxes(c.Request.Context(), middleware.GetOwnerID(c), req.Axes)
	h.respond(c, d, err)
}

// AddAxis appends one option axis
// @Summary Add an option axis
// @Tags drafts
// @Accept json
// @Router /drafts/option-product/axes [post]
func (h *DraftsHandler) AddAxis(c *gin.Context) {
	var axis optionmatrix.Axis
	if err := c.ShouldBindJSON(&axis); err != nil {
		validationError(c, err)
		return
	}
	d, err := h.service.AddAxis(c.Request.Context(), middleware.GetOwnerID(c), axis)
	h.respond(c, d, err)
}

// RemoveAxis deletes the option axis at index
// @Summary Remove an option axis
// @Tags drafts
// @Router /drafts/option-product/axes/{index} [delete]
func (h *DraftsHandler) RemoveAxis(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	d, err := h.service.RemoveAxis(c.Request.Context(), middleware.GetOwnerID(c), index)
	h.respond(c, d, err)
}

// Apply generates the variant table. Edited cells are reset.
// @Summary Apply option axes
// @Tags drafts
// @Router /drafts/option-product/apply [post]
func (h *DraftsHandler) Apply(c *gin.Context) {
	d, err := h.service.Apply(c.Request.Context(), middleware.GetOwnerID(c))
	h.respond(c, d, err)
}

// UpdateCell edits a price or stock cell
// @Summary Edit a variant cell
// @Tags drafts
// @Accept json
// @Router /drafts/option-product/variants/{row} [patch]
func (h *DraftsHandler) UpdateCell(c *gin.Context) {
	row, ok := pathIndex(c, "row")
	if !ok {
		return
	}
	var req updateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	d, err := h.service.UpdateCell(c.Request.Context(), middleware.GetOwnerID(c), row, req.Field, req.text())
	h.respond(c, d, err)
}

// RemoveRow deletes a generated variant
// @Summary Remove a variant row
// @Tags drafts
// @Router /drafts/option-product/variants/{row} [delete]
func (h *DraftsHandler) RemoveRow(c *gin.Context) {
	row, ok := pathIndex(c, "row")
	if !ok {
		return
	}
	d, err := h.service.RemoveRow(c.Request.Context(), middleware.GetOwnerID(c), row)
	h.respond(c, d, err)
}

// Submit registers the option product with the backend
// @Summary Submit the option product
// @Tags drafts
// @Produce json
// @Success 201 {object} models.SuccessResponse
// @Router /drafts/option-product/submit [post]
func (h *DraftsHandler) Submit(c *gin.Context) {
	req, err := h.service.Submit(backendCtx(c), middleware.GetOwnerID(c), middleware.GetStoreID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    req,
		Message: "Product registered",
	})
}

// Discard drops the draft
// @Summary Discard the draft
// @Tags drafts
// @Router /drafts/option-product [delete]
func (h *DraftsHandler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), middleware.GetOwnerID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Draft discarded"})
}

// Export downloads the variant table as Excel
// @Summary Export the variant table
// @Tags drafts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /drafts/option-product/export [get]
func (h *DraftsHandler) Export(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	data, err := drafts.ExportXLSX(d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=option_variants.xlsx")
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Import reads prices and stock from an edited export
// @Summary Import the variant table
// @Tags drafts
// @Accept multipart/form-data
// @Param file formData file true "Exported workbook"
// @Router /drafts/option-product/import [post]
func (h *DraftsHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldError("FILE_REQUIRED", "Upload the exported workbook", "file"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	d, err := h.service.ImportXLSX(c.Request.Context(), middleware.GetOwnerID(c), file)
	h.respond(c, d, err)
}
