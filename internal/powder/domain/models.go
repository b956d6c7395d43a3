package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Stock status values derived from current stock against the minimum
// level. Never persisted; always computed at read time.
const (
	StatusInStock  = "in_stock"
	StatusLowStock = "low_stock"
	StatusCritical = "critical"
)

// lowStockFactor widens the low-stock band above the minimum level.
const lowStockFactor = 1.2

// Powder is one powder coating product tracked in inventory.
type Powder struct {
	ID           snowflake.ID `json:"id,string" gorm:"primaryKey"`
	SKU          string       `json:"sku" gorm:"type:text;not null;uniqueIndex"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	Color        string       `json:"color" gorm:"type:text"`
	Brand        string       `json:"brand" gorm:"type:text"`
	CurrentStock float64      `json:"current_stock" gorm:"not null;default:0"`
	MinLevel     float64      `json:"min_level" gorm:"not null;default:0"`
	PricePerKG   float64      `json:"price_per_kg" gorm:"not null;default:0"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Powder) TableName() string { return "powders" }

// Status derives the stock level band. Stock at or below the minimum is
// critical; stock within 20 percent above the minimum is low.
func (p Powder) Status() string {
	if p.CurrentStock <= p.MinLevel {
		return StatusCritical
	}
	if p.CurrentStock <= p.MinLevel*lowStockFactor {
		return StatusLowStock
	}
	return StatusInStock
}

// StockValue is the monetary value of the remaining stock.
func (p Powder) StockValue() float64 {
	return p.CurrentStock * p.PricePerKG
}

// InventoryStats summarizes the whole powder inventory.
type InventoryStats struct {
	TotalItems    int     `json:"total_items"`
	TotalStockKG  float64 `json:"total_stock_kg"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
	CriticalCount int     `json:"critical_count"`
}
