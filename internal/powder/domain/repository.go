package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	AfterID snowflake.ID
	Limit   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Powder) error
	Update(ctx context.Context, db *gorm.DB, p *Powder) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Powder, error)
	FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*Powder, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Powder, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]Powder, error)
}
