package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() powderdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *powderdomain.Powder) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO powders (id, sku, name, color, brand, current_stock, min_level, price_per_kg, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.SKU,
		p.Name,
		p.Color,
		p.Brand,
		p.CurrentStock,
		p.MinLevel,
		p.PricePerKG,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *powderdomain.Powder) error {
	return db.WithContext(ctx).Exec(
		`UPDATE powders
		 SET name = ?, color = ?, brand = ?, current_stock = ?, min_level = ?, price_per_kg = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name,
		p.Color,
		p.Brand,
		p.CurrentStock,
		p.MinLevel,
		p.PricePerKG,
		p.UpdatedAt,
		p.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM powders WHERE id = ?`,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*powderdomain.Powder, error) {
	var p powderdomain.Powder
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, color, brand, current_stock, min_level, price_per_kg, created_at, updated_at
		 FROM powders WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*powderdomain.Powder, error) {
	var p powderdomain.Powder
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, color, brand, current_stock, min_level, price_per_kg, created_at, updated_at
		 FROM powders WHERE sku = ?`,
		sku,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter powderdomain.ListFilter) ([]powderdomain.Powder, error) {
	query := db.WithContext(ctx).Model(&powderdomain.Powder{}).Order("id ASC")
	if filter.AfterID != 0 {
		query = query.Where("id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var items []powderdomain.Powder
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]powderdomain.Powder, error) {
	var items []powderdomain.Powder
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, color, brand, current_stock, min_level, price_per_kg, created_at, updated_at
		 FROM powders ORDER BY name ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
