package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() qcdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, report *qcdomain.Report) error {
	return db.WithContext(ctx).Create(report).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, report *qcdomain.Report) error {
	return db.WithContext(ctx).Exec(
		`UPDATE qc_reports
		 SET inspector = ?, test_date = ?, result = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		report.Inspector,
		report.TestDate,
		report.Result,
		report.Notes,
		report.UpdatedAt,
		report.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM qc_reports WHERE id = ?`,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*qcdomain.Report, error) {
	var report qcdomain.Report
	err := db.WithContext(ctx).Where("id = ?", id).Take(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *repo) FindByReportID(ctx context.Context, db *gorm.DB, reportID string) (*qcdomain.Report, error) {
	var report qcdomain.Report
	err := db.WithContext(ctx).Where("report_id = ?", reportID).Take(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter qcdomain.ListFilter) ([]qcdomain.Report, error) {
	query := db.WithContext(ctx).Model(&qcdomain.Report{}).Order("id ASC")
	if filter.Result != "" {
		query = query.Where("result = ?", filter.Result)
	}
	if filter.AfterID != 0 {
		query = query.Where("id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var reports []qcdomain.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repo) CountByResult(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Result string `gorm:"column:result"`
		Count  int64  `gorm:"column:count"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT result, COUNT(*) AS count FROM qc_reports GROUP BY result`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Result] = row.Count
	}
	return counts, nil
}
