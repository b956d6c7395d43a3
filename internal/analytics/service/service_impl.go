package service

import (
	"context"
	"iter"
	"time"

	analyticsdomain "github.com/smitnayi/metamorph-inventory/internal/analytics/domain"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	UtilityRepo    utilitydomain.Repository
	ProductionRepo productiondomain.Repository
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	utilityRepo    utilitydomain.Repository
	productionRepo productiondomain.Repository
}

func New(p Params) analyticsdomain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("analytics.service"),
		utilityRepo:    p.UtilityRepo,
		productionRepo: p.ProductionRepo,
	}
}

// DailyWindow yields per-date summaries lazily. Each restart of the
// returned sequence re-reads the rollups, so a caller may range over
// it more than once and observe fresh data.
func (s *Service) DailyWindow(ctx context.Context, start, end time.Time) iter.Seq2[analyticsdomain.DailyRecord, error] {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	return func(yield func(analyticsdomain.DailyRecord, error) bool) {
		if endDay.Before(startDay) {
			yield(analyticsdomain.DailyRecord{}, analyticsdomain.ErrInvalidWindow)
			return
		}

		for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
			record, err := s.dailyRecord(ctx, day)
			if err != nil {
				yield(analyticsdomain.DailyRecord{}, err)
				return
			}
			if !yield(*record, nil) {
				return
			}
		}
	}
}

func (s *Service) dailyRecord(ctx context.Context, day time.Time) (*analyticsdomain.DailyRecord, error) {
	date := utilitydomain.DayOf(day)
	record := &analyticsdomain.DailyRecord{Date: date}

	// Absence of a rollup is an ordinary zero-valued day.
	rollup, err := s.utilityRepo.FindByDate(ctx, s.db, date)
	if err != nil {
		return nil, err
	}
	if rollup != nil {
		record.GasConsumption = rollup.GasConsumption
		record.ElectricityUsage = rollup.ElectricityUsage
		record.WaterUsage = rollup.WaterUsage
	}

	totals, err := s.productionRepo.SumUsageCompletedOn(ctx, s.db, day)
	if err != nil {
		return nil, err
	}
	record.CompletedOrders = totals.Orders
	record.Efficiency = analyticsdomain.Efficiency(record.CompletedOrders, record.ElectricityUsage)
	return record, nil
}

// MonthOverMonth compares the current month to date against the full
// previous calendar month, both derived from completed orders.
func (s *Service) MonthOverMonth(ctx context.Context, reference time.Time) (*analyticsdomain.MonthComparison, error) {
	ref := reference.UTC()
	currentStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	currentEnd := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	previousStart := currentStart.AddDate(0, -1, 0)
	previousEnd := currentStart

	current, err := s.bucket(ctx, currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.bucket(ctx, previousStart, previousEnd)
	if err != nil {
		return nil, err
	}

	return &analyticsdomain.MonthComparison{
		Current:  *current,
		Previous: *previous,
	}, nil
}

func (s *Service) bucket(ctx context.Context, from, to time.Time) (*analyticsdomain.MonthBucket, error) {
	totals, err := s.productionRepo.SumUsageCompletedBetween(ctx, s.db, from, to)
	if err != nil {
		return nil, err
	}
	return &analyticsdomain.MonthBucket{
		From:        utilitydomain.DayOf(from),
		To:          utilitydomain.DayOf(to.AddDate(0, 0, -1)),
		Electricity: totals.Electricity,
		Gas:         totals.Gas,
		Water:       totals.Water,
		Orders:      totals.Orders,
	}, nil
}
