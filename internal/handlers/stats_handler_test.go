package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-console/internal/models"
	"merchant-console/internal/repository"
)

func TestGetSalesReport(t *testing.T) {
	sales := repository.NewSalesRepository(setupTestDB(t))
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{now.Add(-time.Hour), now.AddDate(0, 0, -1), now.AddDate(0, 0, -8)} {
		_, err := sales.Record(context.Background(), &models.SalesRecord{
			OrderID:   string(rune('a' + i)),
			StoreID:   testStore,
			Amount:    1000,
			OrderedAt: at,
		})
		require.NoError(t, err)
	}

	h := NewStatsHandler(sales, quietLogger())
	h.now = func() time.Time { return now }
	router := setupTestRouter()
	router.GET("/stats/sales", withIdentity(testOwner, testStore), h.GetSalesReport)

	w := doJSON(t, router, http.MethodGet, "/stats/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp envelope[models.SalesReport]
	decode(t, w, &resp)
	assert.Equal(t, models.PeriodDaily, resp.Data.Period)
	require.Len(t, resp.Data.Rows, 7)
	assert.Equal(t, "2024-05-10", resp.Data.Rows[0].Label)
	assert.Equal(t, int64(2000), resp.Data.Summary.TotalSales)
	assert.Equal(t, 100.0, resp.Data.Summary.ComparedToLastWeek)

	w = doJSON(t, router, http.MethodGet, "/stats/sales?period=weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, models.PeriodWeekly, resp.Data.Period)
	assert.Equal(t, int64(3000), resp.Data.Summary.TotalSales)

	w = doJSON(t, router, http.MethodGet, "/stats/sales?period=yearly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
