package domain

import (
	"context"
	"errors"
	"iter"
	"time"
)

// DailyRecord is one date's summary inside an analytics window.
type DailyRecord struct {
	Date             string  `json:"date"`
	GasConsumption   float64 `json:"gas_consumption"`
	ElectricityUsage float64 `json:"electricity_usage"`
	WaterUsage       float64 `json:"water_usage"`
	CompletedOrders  int64   `json:"completed_orders"`
	Efficiency       float64 `json:"efficiency"`
}

// MonthBucket sums utility usage and order counts for one calendar
// partition.
type MonthBucket struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Electricity float64 `json:"electricity"`
	Gas         float64 `json:"gas"`
	Water       float64 `json:"water"`
	Orders      int64   `json:"orders"`
}

// MonthComparison holds the current month to date next to the full
// previous calendar month.
type MonthComparison struct {
	Current  MonthBucket `json:"current"`
	Previous MonthBucket `json:"previous"`
}

type Service interface {
	// DailyWindow yields one record per date in [start, end] in
	// ascending order. The sequence is lazy and restartable; dates
	// with no rollup yield zero values, not an error.
	DailyWindow(ctx context.Context, start, end time.Time) iter.Seq2[DailyRecord, error]

	// MonthOverMonth partitions order history at the day-of-month
	// boundaries around the reference date.
	MonthOverMonth(ctx context.Context, reference time.Time) (*MonthComparison, error)
}

var ErrInvalidWindow = errors.New("invalid_window")

// Efficiency is completed orders per electricity unit, scaled to a
// percentage. Zero electricity yields zero, never a division error.
func Efficiency(orders int64, electricity float64) float64 {
	if electricity <= 0 {
		return 0
	}
	return float64(orders) / electricity * 100
}
