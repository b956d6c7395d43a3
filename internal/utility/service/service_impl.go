package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smitnayi/metamorph-inventory/internal/observability/metrics"
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
	GenID          *snowflake.Node
	Repo           utilitydomain.Repository
	ProductionRepo productiondomain.Repository
	Metrics        *metrics.ReconcileMetrics `optional:"true"`
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	repo           utilitydomain.Repository
	productionRepo productiondomain.Repository
	metrics        *metrics.ReconcileMetrics
}

func New(p Params) utilitydomain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("utility.service"),
		genID:          p.GenID,
		repo:           p.Repo,
		productionRepo: p.ProductionRepo,
		metrics:        p.Metrics,
	}
}

func (s *Service) UpsertDaily(ctx context.Context, date string, fields utilitydomain.DailyFields) (*utilitydomain.UtilityData, error) {
	return s.upsertDaily(ctx, s.db, date, fields)
}

func (s *Service) upsertDaily(ctx context.Context, db *gorm.DB, date string, fields utilitydomain.DailyFields) (*utilitydomain.UtilityData, error) {
	date = strings.TrimSpace(date)
	if _, err := utilitydomain.ParseDay(date); err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}

	now := time.Now().UTC()
	row := &utilitydomain.UtilityData{
		ID:                s.genID.Generate(),
		Date:              date,
		GasConsumption:    fields.Gas,
		ElectricityUsage:  fields.Electricity,
		WaterUsage:        fields.Water,
		PowderConsumption: fields.Powder,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Upsert(ctx, db, row); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordUpsert()
	}

	// The conflict path keeps the original row id, so re-read instead
	// of returning the candidate row.
	stored, err := s.repo.FindByDate(ctx, db, date)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return row, nil
	}
	return stored, nil
}

func (s *Service) SubmitReading(ctx context.Context, req utilitydomain.ReadingRequest) (*utilitydomain.UtilityData, error) {
	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	var rollup *utilitydomain.UtilityData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reading := &utilitydomain.Consumption{
			ID:               s.genID.Generate(),
			GasConsumption:   req.Gas,
			ElectricityUsage: req.Electricity,
			WaterUsage:       req.Water,
			Timestamp:        at,
		}
		if err := s.repo.AppendConsumption(ctx, tx, reading); err != nil {
			return err
		}

		day := utilitydomain.DayOf(at)
		existing, err := s.repo.FindByDate(ctx, tx, day)
		if err != nil {
			return err
		}

		fields := utilitydomain.DailyFields{
			Gas:         req.Gas,
			Electricity: req.Electricity,
			Water:       req.Water,
		}
		// A manual reading replaces the metered values but keeps the
		// powder figure owned by the recompute cycle.
		if existing != nil {
			fields.Powder = existing.PowderConsumption
		}

		rollup, err = s.upsertDaily(ctx, tx, day, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("utility reading submitted",
		zap.String("date", rollup.Date),
		zap.Float64("gas", req.Gas),
		zap.Float64("electricity", req.Electricity),
		zap.Float64("water", req.Water),
	)
	return rollup, nil
}

// RecordOrderUsage updates the order-scoped utility fields and, when
// the order already carries a completion date, reconciles that date's
// rollup in the same transaction. Order status is never touched here;
// completion is a distinct state machine transition.
func (s *Service) RecordOrderUsage(ctx context.Context, orderID string, usage utilitydomain.OrderUsage) (*utilitydomain.UtilityData, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, utilitydomain.ErrOrderNotFound
	}

	var rollup *utilitydomain.UtilityData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if err := s.productionRepo.UpdateUsage(ctx, tx, order.ID, usage.Electricity, usage.Gas, usage.Water); err != nil {
			return err
		}

		if order.CompletedAt == nil {
			return nil
		}
		rollup, err = s.recomputeDate(ctx, tx, utilitydomain.DayOf(*order.CompletedAt))
		return err
	})
	if err != nil {
		return nil, err
	}
	return rollup, nil
}

func (s *Service) RecomputeDate(ctx context.Context, date string) (*utilitydomain.UtilityData, error) {
	date = strings.TrimSpace(date)
	if _, err := utilitydomain.ParseDay(date); err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}

	var rollup *utilitydomain.UtilityData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rollup, err = s.recomputeDate(ctx, tx, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rollup, nil
}

// recomputeDate reads the completed-order aggregate and writes the
// rollup atomically inside the caller's transaction.
func (s *Service) recomputeDate(ctx context.Context, tx *gorm.DB, date string) (*utilitydomain.UtilityData, error) {
	day, err := utilitydomain.ParseDay(date)
	if err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}

	totals, err := s.productionRepo.SumUsageCompletedOn(ctx, tx, day)
	if err != nil {
		return nil, err
	}

	fields := utilitydomain.DailyFields{
		Gas:         totals.Gas,
		Electricity: totals.Electricity,
		Water:       totals.Water,
	}
	if existing, err := s.repo.FindByDate(ctx, tx, date); err != nil {
		return nil, err
	} else if existing != nil {
		fields.Powder = existing.PowderConsumption
	}

	rollup, err := s.upsertDaily(ctx, tx, date, fields)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordRecompute()
	}

	s.log.Info("date reconciled",
		zap.String("date", date),
		zap.Float64("electricity", rollup.ElectricityUsage),
		zap.Float64("gas", rollup.GasConsumption),
		zap.Float64("water", rollup.WaterUsage),
		zap.Int64("orders", totals.Orders),
	)
	return rollup, nil
}

func (s *Service) GetByDate(ctx context.Context, date string) (*utilitydomain.UtilityData, error) {
	date = strings.TrimSpace(date)
	if _, err := utilitydomain.ParseDay(date); err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}

	row, err := s.repo.FindByDate(ctx, s.db, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, utilitydomain.ErrNotFound
	}
	return row, nil
}

func (s *Service) Range(ctx context.Context, from, to string) ([]utilitydomain.UtilityData, error) {
	if _, err := utilitydomain.ParseDay(from); err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}
	if _, err := utilitydomain.ParseDay(to); err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}
	return s.repo.ListRange(ctx, s.db, from, to)
}

func (s *Service) LatestReading(ctx context.Context) (*utilitydomain.Consumption, error) {
	reading, err := s.repo.LatestConsumption(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, utilitydomain.ErrNotFound
	}
	return reading, nil
}

func (s *Service) ListReadings(ctx context.Context, limit int) ([]utilitydomain.Consumption, error) {
	return s.repo.ListConsumption(ctx, s.db, limit)
}

func (s *Service) FindDuplicateDates(ctx context.Context) ([]utilitydomain.DuplicateGroup, error) {
	return s.repo.DuplicateDates(ctx, s.db)
}

// ResolveDate restores the one-row-per-date invariant. Newest wins:
// the row with the latest creation time survives and all earlier rows
// are deleted. Earlier data is intentionally discarded, not merged.
func (s *Service) ResolveDate(ctx context.Context, date string) (*utilitydomain.UtilityData, error) {
	date = strings.TrimSpace(date)
	if _, err := utilitydomain.ParseDay(date); err != nil {
		return nil, utilitydomain.ErrInvalidDate
	}

	var kept *utilitydomain.UtilityData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.ListByDate(ctx, tx, date)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return utilitydomain.ErrNotFound
		}
		if len(rows) == 1 {
			kept = &rows[0]
			return utilitydomain.ErrNoDuplicates
		}

		kept = &rows[0]
		stale := make([]snowflake.ID, 0, len(rows)-1)
		for _, row := range rows[1:] {
			stale = append(stale, row.ID)
		}
		return s.repo.DeleteByIDs(ctx, tx, stale)
	})
	if err != nil {
		return kept, err
	}
	if s.metrics != nil {
		s.metrics.RecordRepair()
	}

	s.log.Warn("duplicate rollups repaired",
		zap.String("date", date),
		zap.String("kept_id", kept.ID.String()),
	)
	return kept, nil
}

func (s *Service) findOrder(ctx context.Context, tx *gorm.DB, orderID string) (*productiondomain.Order, error) {
	if parsed, err := snowflake.ParseString(orderID); err == nil {
		order, err := s.productionRepo.FindByID(ctx, tx, parsed)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}

	order, err := s.productionRepo.FindByOrderID(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utilitydomain.ErrOrderNotFound
	}
	return order, nil
}
