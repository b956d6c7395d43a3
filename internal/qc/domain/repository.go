package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Result  string
	AfterID snowflake.ID
	Limit   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *Report) error
	Update(ctx context.Context, db *gorm.DB, r *Report) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Report, error)
	FindByReportID(ctx context.Context, db *gorm.DB, reportID string) (*Report, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Report, error)
	CountByResult(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}
