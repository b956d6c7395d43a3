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
	List(ctx context.Context, result string, p pagination.Pagination) ([]Response, *pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// PassRate computes passed/total*100 over all reports, rounded to
	// one decimal. Zero reports yields a zero rate, not an error.
	PassRate(ctx context.Context) (*PassRateStats, error)
}

type CreateRequest struct {
	ReportID    string     `json:"report_id"`
	ProductName string     `json:"product_name"`
	Inspector   string     `json:"inspector"`
	TestDate    *time.Time `json:"test_date"`
	Result      string     `json:"result"`
	OrderRef    string     `json:"order_ref"`
	Notes       string     `json:"notes"`
}

type UpdateRequest struct {
	ID        string     `json:"id"`
	Inspector *string    `json:"inspector,omitempty"`
	TestDate  *time.Time `json:"test_date,omitempty"`
	Result    *string    `json:"result,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

type Response struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"report_id"`
	ProductName string    `json:"product_name"`
	Inspector   string    `json:"inspector"`
	TestDate    time.Time `json:"test_date"`
	Result      string    `json:"result"`
	OrderRef    string    `json:"order_ref,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrInvalidReportID    = errors.New("invalid_report_id")
	ErrInvalidProductName = errors.New("invalid_product_name")
	ErrInvalidResult      = errors.New("invalid_result")
	ErrReportExists       = errors.New("report_exists")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidID          = errors.New("invalid_id")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
