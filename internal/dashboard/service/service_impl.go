package service

import (
	"context"
	"errors"
	"time"

	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Overview is the single read-only composition served to the
// dashboard. Building it has no side effects.
type Overview struct {
	Inventory      *powderdomain.InventoryStats `json:"inventory"`
	QC             *qcdomain.PassRateStats      `json:"qc"`
	TodayUtility   *utilitydomain.UtilityData   `json:"today_utility"`
	LatestReading  *utilitydomain.Consumption   `json:"latest_reading,omitempty"`
	OrdersInFlight int64                        `json:"orders_in_progress"`
	OrdersPending  int64                        `json:"orders_pending"`
	RecentOrders   []productiondomain.Order     `json:"recent_orders"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	PowderSvc      powderdomain.Service
	QCSvc          qcdomain.Service
	UtilitySvc     utilitydomain.Service
	ProductionRepo productiondomain.Repository
}

type serviceImpl struct {
	db             *gorm.DB
	log            *zap.Logger
	powderSvc      powderdomain.Service
	qcSvc          qcdomain.Service
	utilitySvc     utilitydomain.Service
	productionRepo productiondomain.Repository
}

func New(p Params) Service {
	return &serviceImpl{
		db:             p.DB,
		log:            p.Log.Named("dashboard.service"),
		powderSvc:      p.PowderSvc,
		qcSvc:          p.QCSvc,
		utilitySvc:     p.UtilitySvc,
		productionRepo: p.ProductionRepo,
	}
}

func (s *serviceImpl) Overview(ctx context.Context) (*Overview, error) {
	now := time.Now().UTC()
	overview := &Overview{GeneratedAt: now}

	inventory, err := s.powderSvc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	overview.Inventory = inventory

	passRate, err := s.qcSvc.PassRate(ctx)
	if err != nil {
		return nil, err
	}
	overview.QC = passRate

	today, err := s.utilitySvc.GetByDate(ctx, utilitydomain.DayOf(now))
	if err != nil {
		if !errors.Is(err, utilitydomain.ErrNotFound) {
			return nil, err
		}
		// A day without a rollup reads as zero consumption, not as
		// missing data.
		today = &utilitydomain.UtilityData{Date: utilitydomain.DayOf(now)}
	}
	overview.TodayUtility = today

	latest, err := s.utilitySvc.LatestReading(ctx)
	if err != nil && !errors.Is(err, utilitydomain.ErrNotFound) {
		return nil, err
	}
	overview.LatestReading = latest

	inFlight, err := s.productionRepo.CountByStatus(ctx, s.db, productiondomain.StatusInProgress)
	if err != nil {
		return nil, err
	}
	overview.OrdersInFlight = inFlight

	pending, err := s.productionRepo.CountByStatus(ctx, s.db, productiondomain.StatusPending)
	if err != nil {
		return nil, err
	}
	overview.OrdersPending = pending

	recent, err := s.productionRepo.ListRecent(ctx, s.db, 5)
	if err != nil {
		return nil, err
	}
	overview.RecentOrders = recent

	return overview, nil
}
