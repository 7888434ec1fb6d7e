package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SalesRecord is one completed order, recorded from the order event stream
type SalesRecord struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   string         `json:"orderId" gorm:"uniqueIndex;not null"`
	StoreID   int64          `json:"storeId" gorm:"not null;index:idx_sales_store_ordered"`
	Amount    int64          `json:"amount" gorm:"not null"`
	OrderedAt time.Time      `json:"orderedAt" gorm:"not null;index:idx_sales_store_ordered"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (r *SalesRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// StatsPeriod selects the bucket size of a sales report
type StatsPeriod string

const (
	PeriodDaily   StatsPeriod = "DAILY"
	PeriodWeekly  StatsPeriod = "WEEKLY"
	PeriodMonthly StatsPeriod = "MONTHLY"
)

func (p StatsPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// StatsRow is one bucket of a report
type StatsRow struct {
	Label  string `json:"label"`
	Orders int64  `json:"orders"`
	Sales  int64  `json:"sales"`
	Avg    int64  `json:"avg"`
}

type StatsSummary struct {
	TotalSales         int64   `json:"totalSales"`
	TotalOrders        int64   `json:"totalOrders"`
	AvgOrderValue      int64   `json:"avgOrderValue"`
	ComparedToLastWeek float64 `json:"comparedToLastWeek"`
}

type SalesReport struct {
	Period  StatsPeriod  `json:"period"`
	Rows    []StatsRow   `json:"rows"`
	Summary StatsSummary `json:"summary"`
}
