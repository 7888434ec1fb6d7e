package repository

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"merchant-console/internal/models"
)

// Report windows
const (
	dailyBuckets   = 7
	weeklyBuckets  = 8
	monthlyBuckets = 6
)

// SalesRepository stores completed orders and aggregates them into reports
type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// Record stores a completed order. A repeated order id is ignored and
// reported as not inserted.
func (r *SalesRepository) Record(ctx context.Context, record *models.SalesRecord) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type bucket struct {
	label      string
	start, end time.Time
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// buckets lists the report buckets for period, newest first. The day of
// until is the last day covered.
func buckets(period models.StatsPeriod, until time.Time) []bucket {
	tomorrow := startOfDay(until).AddDate(0, 0, 1)
	var out []bucket
	switch period {
	case models.PeriodWeekly:
		for i := 0; i < weeklyBuckets; i++ {
			end := tomorrow.AddDate(0, 0, -7*i)
			start := end.AddDate(0, 0, -7)
			out = append(out, bucket{label: start.Format("2006-01-02"), start: start, end: end})
		}
	case models.PeriodMonthly:
		y, m, _ := until.Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, until.Location())
		for i := 0; i < monthlyBuckets; i++ {
			start := first.AddDate(0, -i, 0)
			out = append(out, bucket{label: start.Format("2006-01"), start: start, end: start.AddDate(0, 1, 0)})
		}
	default:
		for i := 0; i < dailyBuckets; i++ {
			start := tomorrow.AddDate(0, 0, -(i + 1))
			out = append(out, bucket{label: start.Format("2006-01-02"), start: start, end: start.AddDate(0, 0, 1)})
		}
	}
	return out
}

// Report aggregates the store's sales for period up to and including the day of until
func (r *SalesRepository) Report(ctx context.Context, storeID int64, period models.StatsPeriod, until time.Time) (*models.SalesReport, error) {
	bs := buckets(period, until)
	windowStart := bs[len(bs)-1].start
	tomorrow := startOfDay(until).AddDate(0, 0, 1)
	weekStart := tomorrow.AddDate(0, 0, -7)
	prevWeekStart := tomorrow.AddDate(0, 0, -14)

	from := windowStart
	if prevWeekStart.Before(from) {
		from = prevWeekStart
	}
	to := bs[0].end
	if tomorrow.After(to) {
		to = tomorrow
	}

	var records []models.SalesRecord
	err := r.db.WithContext(ctx).
		Select("amount", "ordered_at").
		Where("store_id = ? AND ordered_at >= ? AND ordered_at < ?", storeID, from, to).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	report := &models.SalesReport{Period: period, Rows: make([]models.StatsRow, len(bs))}
	for i, b := range bs {
		report.Rows[i].Label = b.label
	}

	var thisWeek, lastWeek int64
	for _, rec := range records {
		at := rec.OrderedAt.In(until.Location())
		for i, b := range bs {
			if !at.Before(b.start) && at.Before(b.end) {
				report.Rows[i].Orders++
				report.Rows[i].Sales += rec.Amount
				break
			}
		}
		switch {
		case !at.Before(weekStart) && at.Before(tomorrow):
			thisWeek += rec.Amount
		case !at.Before(prevWeekStart) && at.Before(weekStart):
			lastWeek += rec.Amount
		}
	}

	for i := range report.Rows {
		row := &report.Rows[i]
		row.Avg = average(row.Sales, row.Orders)
		report.Summary.TotalSales += row.Sales
		report.Summary.TotalOrders += row.Orders
	}
	report.Summary.AvgOrderValue = average(report.Summary.TotalSales, report.Summary.TotalOrders)
	report.Summary.ComparedToLastWeek = percentChange(thisWeek, lastWeek)
	return report, nil
}

func average(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

func percentChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*10) / 10
}
