package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() productiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, o *productiondomain.Order) error {
	return db.WithContext(ctx).Create(o).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, o *productiondomain.Order) error {
	return db.WithContext(ctx).Exec(
		`UPDATE production_orders
		 SET product_name = ?, line = ?, quantity = ?, due_date = ?, status = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		o.ProductName,
		o.Line,
		o.Quantity,
		o.DueDate,
		o.Status,
		o.CompletedAt,
		o.UpdatedAt,
		o.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM production_orders WHERE id = ?`,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*productiondomain.Order, error) {
	var o productiondomain.Order
	err := db.WithContext(ctx).Where("id = ?", id).Take(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *repo) FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*productiondomain.Order, error) {
	var o productiondomain.Order
	err := db.WithContext(ctx).Where("order_id = ?", orderID).Take(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter productiondomain.ListFilter) ([]productiondomain.Order, error) {
	query := db.WithContext(ctx).Model(&productiondomain.Order{}).Order("id DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AfterID != 0 {
		query = query.Where("id < ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []productiondomain.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) UpdateUsage(ctx context.Context, db *gorm.DB, id snowflake.ID, electricity, gas, water float64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE production_orders
		 SET electricity_used = ?, gas_used = ?, water_used = ?, updated_at = ?
		 WHERE id = ?`,
		electricity,
		gas,
		water,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) SumUsageCompletedOn(ctx context.Context, db *gorm.DB, day time.Time) (*productiondomain.UsageTotals, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return r.SumUsageCompletedBetween(ctx, db, from, from.AddDate(0, 0, 1))
}

func (r *repo) SumUsageCompletedBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (*productiondomain.UsageTotals, error) {
	var totals productiondomain.UsageTotals
	err := db.WithContext(ctx).Raw(
		`SELECT
		   COALESCE(SUM(electricity_used), 0) AS electricity,
		   COALESCE(SUM(gas_used), 0)         AS gas,
		   COALESCE(SUM(water_used), 0)       AS water,
		   COUNT(*)                           AS orders
		 FROM production_orders
		 WHERE status = ? AND completed_at >= ? AND completed_at < ?`,
		productiondomain.StatusCompleted,
		from,
		to,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *repo) CountByStatus(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&productiondomain.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]productiondomain.Order, error) {
	var orders []productiondomain.Order
	err := db.WithContext(ctx).
		Model(&productiondomain.Order{}).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type logRepo struct{}

func ProvideLogRepository() productiondomain.LogRepository {
	return &logRepo{}
}

func (r *logRepo) Insert(ctx context.Context, db *gorm.DB, l *productiondomain.Log) error {
	return db.WithContext(ctx).Create(l).Error
}

func (r *logRepo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM production_logs WHERE id = ?`,
		id,
	).Error
}

func (r *logRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*productiondomain.Log, error) {
	var l productiondomain.Log
	err := db.WithContext(ctx).Where("id = ?", id).Take(&l).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *logRepo) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]productiondomain.Log, error) {
	var logs []productiondomain.Log
	err := db.WithContext(ctx).
		Model(&productiondomain.Log{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
