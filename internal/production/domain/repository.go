package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter pages orders newest-first. AfterID is the keyset cursor:
// snowflake IDs are time-ordered, so rows with a smaller ID are older.
type ListFilter struct {
	Status  string
	AfterID snowflake.ID
	Limit   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, o *Order) error
	Update(ctx context.Context, db *gorm.DB, o *Order) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)

	// UpdateUsage writes the order-scoped utility fields without
	// touching status or completion.
	UpdateUsage(ctx context.Context, db *gorm.DB, id snowflake.ID, electricity, gas, water float64) error

	// SumUsageCompletedOn aggregates utility usage over orders whose
	// completed_at falls on the given calendar day and whose status is
	// completed. Missing rows aggregate to zero, not an error.
	SumUsageCompletedOn(ctx context.Context, db *gorm.DB, day time.Time) (*UsageTotals, error)

	// SumUsageCompletedBetween aggregates over completed orders whose
	// completed_at falls in the half-open interval [from, to).
	SumUsageCompletedBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (*UsageTotals, error)

	CountByStatus(ctx context.Context, db *gorm.DB, status string) (int64, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]Order, error)
}

type LogRepository interface {
	Insert(ctx context.Context, db *gorm.DB, l *Log) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Log, error)

	// ListRecent returns shift-log entries newest-first.
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]Log, error)
}
