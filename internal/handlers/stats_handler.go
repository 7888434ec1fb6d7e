package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
	"merchant-console/internal/repository"
)

type StatsHandler struct {
	sales  *repository.SalesRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewStatsHandler(sales *repository.SalesRepository, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{sales: sales, logger: logger, now: time.Now}
}

// GetSalesReport returns bucketed sales with a weekly comparison
// @Summary Sales statistics
// @Tags stats
// @Produce json
// @Param period query string false "DAILY, WEEKLY or MONTHLY" default(DAILY)
// @Router /stats/sales [get]
func (h *StatsHandler) GetSalesReport(c *gin.Context) {
	period := models.StatsPeriod(strings.ToUpper(c.DefaultQuery("period", string(models.PeriodDaily))))
	if !period.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldError("INVALID_PERIOD", "period must be DAILY, WEEKLY or MONTHLY", "period"))
		return
	}

	report, err := h.sales.Report(c.Request.Context(), middleware.GetStoreID(c), period, h.now().UTC())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build sales report")
		c.JSON(http.StatusInternalServerError, models.NewError("DATABASE_ERROR", "Failed to build sales report"))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: report})
}
