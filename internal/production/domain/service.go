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
	List(ctx context.Context, status string, p pagination.Pagination) ([]Response, *pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Transition(ctx context.Context, id string, target string) (*Response, error)
	Delete(ctx context.Context, id string) error

	CreateLog(ctx context.Context, req LogCreateRequest) (*LogResponse, error)
	ListLogs(ctx context.Context, limit int) ([]LogResponse, error)
	DeleteLog(ctx context.Context, id string) error
}

type CreateRequest struct {
	OrderID     string     `json:"order_id"`
	ProductName string     `json:"product_name"`
	Line        string     `json:"line"`
	Quantity    int        `json:"quantity"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateRequest struct {
	ID          string     `json:"id"`
	ProductName *string    `json:"product_name,omitempty"`
	Line        *string    `json:"line,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type LogCreateRequest struct {
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	OperatorName string `json:"operator_name"`
}

type LogResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	OperatorName string    `json:"operator_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Response struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"order_id"`
	ProductName     string     `json:"product_name"`
	Line            string     `json:"line"`
	Quantity        int        `json:"quantity"`
	DueDate         *time.Time `json:"due_date"`
	Status          string     `json:"status"`
	ElectricityUsed float64    `json:"electricity_used"`
	GasUsed         float64    `json:"gas_used"`
	WaterUsed       float64    `json:"water_used"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

var (
	ErrInvalidOrderID     = errors.New("invalid_order_id")
	ErrInvalidProductName = errors.New("invalid_product_name")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidOperator    = errors.New("invalid_operator_name")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrOrderExists        = errors.New("order_exists")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidTransition  = errors.New("invalid_transition")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
