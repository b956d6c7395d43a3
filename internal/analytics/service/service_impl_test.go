package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/smitnayi/metamorph-inventory/internal/analytics/domain"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	productionrepository "github.com/smitnayi/metamorph-inventory/internal/production/repository"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	utilityrepository "github.com/smitnayi/metamorph-inventory/internal/utility/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAnalyticsService(t *testing.T) (analyticsdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&utilitydomain.UtilityData{},
		&productiondomain.Order{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:             db,
		Log:            zap.NewNop(),
		UtilityRepo:    utilityrepository.Provide(),
		ProductionRepo: productionrepository.Provide(),
	})
	return svc, db, node
}

func seedRollup(t *testing.T, db *gorm.DB, node *snowflake.Node, date string, electricity float64) {
	t.Helper()
	now := time.Now().UTC()
	row := &utilitydomain.UtilityData{
		ID:               node.Generate(),
		Date:             date,
		ElectricityUsage: electricity,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(row).Error)
}

func seedCompletedOrder(t *testing.T, db *gorm.DB, node *snowflake.Node, code string, completedAt time.Time) {
	t.Helper()
	order := &productiondomain.Order{
		ID:          node.Generate(),
		OrderID:     code,
		ProductName: "Panels",
		Quantity:    10,
		Status:      productiondomain.StatusCompleted,
		CompletedAt: &completedAt,
		CreatedAt:   completedAt,
		UpdatedAt:   completedAt,
	}
	require.NoError(t, db.Create(order).Error)
}

func TestEfficiency(t *testing.T) {
	require.Equal(t, 0.0, analyticsdomain.Efficiency(0, 0))
	require.Equal(t, 0.0, analyticsdomain.Efficiency(5, 0))
	require.Equal(t, 0.0, analyticsdomain.Efficiency(5, -10))
	require.Equal(t, 2.0, analyticsdomain.Efficiency(2, 100))
	require.Equal(t, 50.0, analyticsdomain.Efficiency(1, 2))
}

func TestDailyWindowYieldsEveryDateInOrder(t *testing.T) {
	svc, db, node := setupAnalyticsService(t)
	ctx := context.Background()

	seedRollup(t, db, node, "2026-03-01", 100)
	seedRollup(t, db, node, "2026-03-03", 300)
	seedCompletedOrder(t, db, node, "ORD-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	seedCompletedOrder(t, db, node, "ORD-2", time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC))

	start := time.Date(2026, 3, 1, 13, 45, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)

	var records []analyticsdomain.DailyRecord
	for record, err := range svc.DailyWindow(ctx, start, end) {
		require.NoError(t, err)
		records = append(records, record)
	}

	require.Len(t, records, 3)
	require.Equal(t, "2026-03-01", records[0].Date)
	require.Equal(t, "2026-03-02", records[1].Date)
	require.Equal(t, "2026-03-03", records[2].Date)

	require.Equal(t, 100.0, records[0].ElectricityUsage)
	require.Equal(t, int64(2), records[0].CompletedOrders)
	require.Equal(t, 2.0, records[0].Efficiency)

	// No rollup and no completions on the middle day.
	require.Equal(t, 0.0, records[1].ElectricityUsage)
	require.Equal(t, int64(0), records[1].CompletedOrders)
	require.Equal(t, 0.0, records[1].Efficiency)

	require.Equal(t, 300.0, records[2].ElectricityUsage)
}

func TestDailyWindowRestartable(t *testing.T) {
	svc, db, node := setupAnalyticsService(t)
	ctx := context.Background()

	seedRollup(t, db, node, "2026-03-01", 100)
	seq := svc.DailyWindow(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	for range 2 {
		var count int
		for _, err := range seq {
			require.NoError(t, err)
			count++
		}
		require.Equal(t, 1, count)
	}
}

func TestDailyWindowInvalid(t *testing.T) {
	svc, _, _ := setupAnalyticsService(t)

	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	var got error
	for _, err := range svc.DailyWindow(context.Background(), start, end) {
		got = err
	}
	require.ErrorIs(t, got, analyticsdomain.ErrInvalidWindow)
}

func TestMonthOverMonthBuckets(t *testing.T) {
	svc, db, node := setupAnalyticsService(t)
	ctx := context.Background()

	// Previous month: two completions. Current month to date: one.
	seedCompletedOrder(t, db, node, "ORD-10", time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC))
	seedCompletedOrder(t, db, node, "ORD-11", time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC))
	seedCompletedOrder(t, db, node, "ORD-12", time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	// Completed after the reference day stays out of the current bucket.
	seedCompletedOrder(t, db, node, "ORD-13", time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC))

	comparison, err := svc.MonthOverMonth(ctx, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, "2026-03-01", comparison.Current.From)
	require.Equal(t, "2026-03-10", comparison.Current.To)
	require.Equal(t, int64(1), comparison.Current.Orders)

	require.Equal(t, "2026-02-01", comparison.Previous.From)
	require.Equal(t, "2026-02-28", comparison.Previous.To)
	require.Equal(t, int64(2), comparison.Previous.Orders)
}
