package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Order status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Order is one production run on the coating line.
type Order struct {
	ID              snowflake.ID `json:"id,string" gorm:"primaryKey"`
	OrderID         string       `json:"order_id" gorm:"column:order_id;type:text;not null;uniqueIndex"`
	ProductName     string       `json:"product_name" gorm:"type:text;not null"`
	Line            string       `json:"line" gorm:"type:text"`
	Quantity        int          `json:"quantity" gorm:"not null;default:0"`
	DueDate         *time.Time   `json:"due_date" gorm:"column:due_date"`
	Status          string       `json:"status" gorm:"type:text;not null;default:pending;index"`
	ElectricityUsed float64      `json:"electricity_used" gorm:"not null;default:0"`
	GasUsed         float64      `json:"gas_used" gorm:"not null;default:0"`
	WaterUsed       float64      `json:"water_used" gorm:"not null;default:0"`
	CompletedAt     *time.Time   `json:"completed_at" gorm:"column:completed_at;index"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "production_orders" }

// ValidStatus reports whether status is a known order status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move between the two
// statuses. Completion is reached only through in_progress; cancelled
// orders and completed orders are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Log is one shift-log entry recording finished work on the coating
// line. Entries are append-only operator notes, independent of the
// order state machine.
type Log struct {
	ID           snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Date         string       `json:"date" gorm:"type:text;not null;index"`
	ProductName  string       `json:"product_name" gorm:"type:text;not null"`
	Quantity     int          `json:"quantity" gorm:"not null;default:0"`
	OperatorName string       `json:"operator_name" gorm:"type:text;not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Log) TableName() string { return "production_logs" }

// UsageTotals is the summed order-scoped utility consumption for a set
// of orders.
type UsageTotals struct {
	Electricity float64 `json:"electricity"`
	Gas         float64 `json:"gas"`
	Water       float64 `json:"water"`
	Orders      int64   `json:"orders"`
}
