package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert atomically inserts or replaces the rollup row keyed by
	// date. Last write wins at the row level; the conflict target is
	// the unique date index, never a read-then-write.
	Upsert(ctx context.Context, db *gorm.DB, row *UtilityData) error

	// FindByDate returns the newest row for the date, tolerating
	// duplicate rows left behind by out-of-band writers. Nil when the
	// date has no row.
	FindByDate(ctx context.Context, db *gorm.DB, date string) (*UtilityData, error)

	// ListRange returns rollups for dates in [from, to] ascending.
	ListRange(ctx context.Context, db *gorm.DB, from, to string) ([]UtilityData, error)

	// DuplicateDates groups rows by date and returns dates holding
	// more than one row.
	DuplicateDates(ctx context.Context, db *gorm.DB) ([]DuplicateGroup, error)

	// ListByDate returns every row for a date, newest creation first.
	ListByDate(ctx context.Context, db *gorm.DB, date string) ([]UtilityData, error)

	DeleteByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error

	AppendConsumption(ctx context.Context, db *gorm.DB, c *Consumption) error
	LatestConsumption(ctx context.Context, db *gorm.DB) (*Consumption, error)
	ListConsumption(ctx context.Context, db *gorm.DB, limit int) ([]Consumption, error)
}
