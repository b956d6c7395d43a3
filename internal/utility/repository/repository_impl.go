package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() utilitydomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, row *utilitydomain.UtilityData) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO utility_data (id, date, gas_consumption, electricity_usage, water_usage, powder_consumption, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (date) DO UPDATE SET
		   gas_consumption = excluded.gas_consumption,
		   electricity_usage = excluded.electricity_usage,
		   water_usage = excluded.water_usage,
		   powder_consumption = excluded.powder_consumption,
		   updated_at = excluded.updated_at`,
		row.ID,
		row.Date,
		row.GasConsumption,
		row.ElectricityUsage,
		row.WaterUsage,
		row.PowderConsumption,
		row.CreatedAt,
		row.UpdatedAt,
	).Error
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, date string) (*utilitydomain.UtilityData, error) {
	var row utilitydomain.UtilityData
	err := db.WithContext(ctx).Raw(
		`SELECT id, date, gas_consumption, electricity_usage, water_usage, powder_consumption, created_at, updated_at
		 FROM utility_data
		 WHERE date = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		date,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) ListRange(ctx context.Context, db *gorm.DB, from, to string) ([]utilitydomain.UtilityData, error) {
	var rows []utilitydomain.UtilityData
	err := db.WithContext(ctx).Raw(
		`SELECT id, date, gas_consumption, electricity_usage, water_usage, powder_consumption, created_at, updated_at
		 FROM utility_data
		 WHERE date >= ? AND date <= ?
		 ORDER BY date ASC, created_at DESC`,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) DuplicateDates(ctx context.Context, db *gorm.DB) ([]utilitydomain.DuplicateGroup, error) {
	var groups []utilitydomain.DuplicateGroup
	err := db.WithContext(ctx).Raw(
		`SELECT date, COUNT(*) AS count
		 FROM utility_data
		 GROUP BY date
		 HAVING COUNT(*) > 1
		 ORDER BY date ASC`,
	).Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, date string) ([]utilitydomain.UtilityData, error) {
	var rows []utilitydomain.UtilityData
	err := db.WithContext(ctx).Raw(
		`SELECT id, date, gas_consumption, electricity_usage, water_usage, powder_consumption, created_at, updated_at
		 FROM utility_data
		 WHERE date = ?
		 ORDER BY created_at DESC, id DESC`,
		date,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) DeleteByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM utility_data WHERE id IN ?`,
		ids,
	).Error
}

func (r *repo) AppendConsumption(ctx context.Context, db *gorm.DB, c *utilitydomain.Consumption) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO utility_consumption (id, gas_consumption, electricity_usage, water_usage, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID,
		c.GasConsumption,
		c.ElectricityUsage,
		c.WaterUsage,
		c.Timestamp,
	).Error
}

func (r *repo) LatestConsumption(ctx context.Context, db *gorm.DB) (*utilitydomain.Consumption, error) {
	var c utilitydomain.Consumption
	err := db.WithContext(ctx).Raw(
		`SELECT id, gas_consumption, electricity_usage, water_usage, timestamp
		 FROM utility_consumption
		 ORDER BY timestamp DESC, id DESC
		 LIMIT 1`,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) ListConsumption(ctx context.Context, db *gorm.DB, limit int) ([]utilitydomain.Consumption, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []utilitydomain.Consumption
	err := db.WithContext(ctx).Raw(
		`SELECT id, gas_consumption, electricity_usage, water_usage, timestamp
		 FROM utility_consumption
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
