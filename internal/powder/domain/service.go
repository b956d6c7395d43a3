package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, p pagination.Pagination) ([]Response, *pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*InventoryStats, error)
}

type CreateRequest struct {
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Color        string   `json:"color"`
	Brand        string   `json:"brand"`
	CurrentStock float64  `json:"current_stock"`
	MinLevel     float64  `json:"min_level"`
	PricePerKG   *float64 `json:"price_per_kg"`
}

type UpdateRequest struct {
	ID           string   `json:"id"`
	Name         *string  `json:"name,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	CurrentStock *float64 `json:"current_stock,omitempty"`
	MinLevel     *float64 `json:"min_level,omitempty"`
	PricePerKG   *float64 `json:"price_per_kg,omitempty"`
}

type Response struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Brand        string    `json:"brand"`
	CurrentStock float64   `json:"current_stock"`
	MinLevel     float64   `json:"min_level"`
	PricePerKG   float64   `json:"price_per_kg"`
	Status       string    `json:"status"`
	StockValue   float64   `json:"stock_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrInvalidSKU   = errors.New("invalid_sku")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidStock = errors.New("invalid_stock")
	ErrSKUExists    = errors.New("sku_exists")
	ErrNotFound     = errors.New("not_found")
	ErrInvalidID    = errors.New("invalid_id")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
