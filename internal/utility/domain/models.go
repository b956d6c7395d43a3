package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DayFormat is the canonical calendar-date key for daily rollups.
const DayFormat = "2006-01-02"

// DayOf maps an instant to its UTC calendar date key.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// ParseDay validates a calendar date key.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, value, time.UTC)
}

// UtilityData is the daily consumption rollup. The reconciliation
// engine owns these rows: exactly one per calendar date, written only
// through the atomic upsert or the recompute cycle.
type UtilityData struct {
	ID                snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Date              string       `json:"date" gorm:"type:text;not null;uniqueIndex:ux_utility_data_date"`
	GasConsumption    float64      `json:"gas_consumption" gorm:"not null;default:0"`
	ElectricityUsage  float64      `json:"electricity_usage" gorm:"not null;default:0"`
	WaterUsage        float64      `json:"water_usage" gorm:"not null;default:0"`
	PowderConsumption float64      `json:"powder_consumption" gorm:"not null;default:0"`
	CreatedAt         time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UtilityData) TableName() string { return "utility_data" }

// Consumption is one submitted meter reading. Rows are append-only:
// the ledger is never updated or compacted, and "latest" queries order
// by timestamp descending.
type Consumption struct {
	ID               snowflake.ID `json:"id,string" gorm:"primaryKey"`
	GasConsumption   float64      `json:"gas_consumption" gorm:"not null;default:0"`
	ElectricityUsage float64      `json:"electricity_usage" gorm:"not null;default:0"`
	WaterUsage       float64      `json:"water_usage" gorm:"not null;default:0"`
	Timestamp        time.Time    `json:"timestamp" gorm:"column:timestamp;not null;index"`
}

// TableName sets the database table name.
func (Consumption) TableName() string { return "utility_consumption" }

// DuplicateGroup is one date that violates the one-row-per-date
// invariant, with the number of offending rows.
type DuplicateGroup struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
