package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	powderrepository "github.com/smitnayi/metamorph-inventory/internal/powder/repository"
	powderservice "github.com/smitnayi/metamorph-inventory/internal/powder/service"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	productionrepository "github.com/smitnayi/metamorph-inventory/internal/production/repository"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	qcrepository "github.com/smitnayi/metamorph-inventory/internal/qc/repository"
	qcservice "github.com/smitnayi/metamorph-inventory/internal/qc/service"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	utilityrepository "github.com/smitnayi/metamorph-inventory/internal/utility/repository"
	utilityservice "github.com/smitnayi/metamorph-inventory/internal/utility/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDashboard(t *testing.T) (Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&powderdomain.Powder{},
		&productiondomain.Order{},
		&qcdomain.Report{},
		&utilitydomain.UtilityData{},
		&utilitydomain.Consumption{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	productionRepo := productionrepository.Provide()
	svc := New(Params{
		DB:  db,
		Log: log,
		PowderSvc: powderservice.New(powderservice.Params{
			DB: db, Log: log, GenID: node, Repo: powderrepository.Provide(),
		}),
		QCSvc: qcservice.New(qcservice.Params{
			DB: db, Log: log, GenID: node, Repo: qcrepository.Provide(),
		}),
		UtilitySvc: utilityservice.New(utilityservice.Params{
			DB: db, Log: log, GenID: node, Repo: utilityrepository.Provide(), ProductionRepo: productionRepo,
		}),
		ProductionRepo: productionRepo,
	})
	return svc, db, node
}

func TestOverviewEmptySystem(t *testing.T) {
	svc, _, _ := setupDashboard(t)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, overview.Inventory.TotalItems)
	require.Equal(t, int64(0), overview.QC.Total)

	// No rollup for today reads as a zeroed snapshot, not a gap.
	require.NotNil(t, overview.TodayUtility)
	require.Equal(t, utilitydomain.DayOf(time.Now().UTC()), overview.TodayUtility.Date)
	require.Equal(t, 0.0, overview.TodayUtility.ElectricityUsage)
	require.Equal(t, 0.0, overview.TodayUtility.GasConsumption)
	require.Equal(t, 0.0, overview.TodayUtility.WaterUsage)

	require.Nil(t, overview.LatestReading)
	require.Equal(t, int64(0), overview.OrdersInFlight)
	require.Empty(t, overview.RecentOrders)
}

func TestOverviewComposesAllSections(t *testing.T) {
	svc, db, node := setupDashboard(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, db.Create(&powderdomain.Powder{
		ID: node.Generate(), SKU: "PWD-1", Name: "White",
		CurrentStock: 10, MinLevel: 40, PricePerKG: 8,
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	require.NoError(t, db.Create(&qcdomain.Report{
		ID: node.Generate(), ReportID: "QC-1", ProductName: "Panels",
		TestDate: now, Result: qcdomain.ResultPassed,
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	require.NoError(t, db.Create(&productiondomain.Order{
		ID: node.Generate(), OrderID: "ORD-1", ProductName: "Panels",
		Status: productiondomain.StatusInProgress, CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&productiondomain.Order{
		ID: node.Generate(), OrderID: "ORD-2", ProductName: "Panels",
		Status: productiondomain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}).Error)

	require.NoError(t, db.Create(&utilitydomain.UtilityData{
		ID: node.Generate(), Date: utilitydomain.DayOf(now),
		ElectricityUsage: 1500, CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&utilitydomain.Consumption{
		ID: node.Generate(), ElectricityUsage: 1500, Timestamp: now,
	}).Error)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, overview.Inventory.TotalItems)
	require.Equal(t, 1, overview.Inventory.CriticalCount)
	require.Equal(t, 100.0, overview.QC.PassRate)
	require.NotNil(t, overview.TodayUtility)
	require.Equal(t, 1500.0, overview.TodayUtility.ElectricityUsage)
	require.NotNil(t, overview.LatestReading)
	require.Equal(t, int64(1), overview.OrdersInFlight)
	require.Equal(t, int64(1), overview.OrdersPending)
	require.Len(t, overview.RecentOrders, 2)
}
