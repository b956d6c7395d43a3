package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	qcrepository "github.com/smitnayi/metamorph-inventory/internal/qc/repository"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupQCService(t *testing.T) qcdomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&qcdomain.Report{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  qcrepository.Provide(),
	})
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	report, err := svc.Create(ctx, qcdomain.CreateRequest{
		ReportID:    "QC-1001",
		ProductName: "Fence panels",
		Inspector:   "A. Kovacs",
	})
	require.NoError(t, err)
	require.Equal(t, qcdomain.ResultPending, report.Result)
	require.False(t, report.TestDate.IsZero())
}

func TestCreateRejectsDuplicateReportID(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, qcdomain.CreateRequest{ReportID: "QC-1001", ProductName: "Panels"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, qcdomain.CreateRequest{ReportID: "QC-1001", ProductName: "Panels"})
	require.ErrorIs(t, err, qcdomain.ErrReportExists)
}

func TestCreateRejectsUnknownResult(t *testing.T) {
	svc := setupQCService(t)

	_, err := svc.Create(context.Background(), qcdomain.CreateRequest{
		ReportID:    "QC-1002",
		ProductName: "Panels",
		Result:      "maybe",
	})
	require.ErrorIs(t, err, qcdomain.ErrInvalidResult)
}

func TestPassRateEmpty(t *testing.T) {
	svc := setupQCService(t)

	stats, err := svc.PassRate(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.Total)
	require.Equal(t, 0.0, stats.PassRate)
}

func TestPassRateRoundsToOneDecimal(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	results := []string{
		qcdomain.ResultPassed,
		qcdomain.ResultPassed,
		qcdomain.ResultPassed,
		qcdomain.ResultFailed,
	}
	for i, result := range results {
		_, err := svc.Create(ctx, qcdomain.CreateRequest{
			ReportID:    fmt.Sprintf("QC-20%02d", i),
			ProductName: "Brackets",
			Result:      result,
		})
		require.NoError(t, err)
	}

	stats, err := svc.PassRate(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(3), stats.Passed)
	require.Equal(t, int64(1), stats.Failed)
	require.Equal(t, 75.0, stats.PassRate)
}

func TestPassRateCountsPendingInTotal(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	for i, result := range []string{qcdomain.ResultPassed, qcdomain.ResultPending, qcdomain.ResultPending} {
		_, err := svc.Create(ctx, qcdomain.CreateRequest{
			ReportID:    fmt.Sprintf("QC-21%02d", i),
			ProductName: "Brackets",
			Result:      result,
		})
		require.NoError(t, err)
	}

	stats, err := svc.PassRate(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, 33.3, stats.PassRate)
}

func TestUpdateAndLookupByReportID(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, qcdomain.CreateRequest{
		ReportID:    "QC-3001",
		ProductName: "Radiator covers",
	})
	require.NoError(t, err)

	passed := qcdomain.ResultPassed
	notes := "coating thickness within tolerance"
	updated, err := svc.Update(ctx, qcdomain.UpdateRequest{
		ID:     "QC-3001",
		Result: &passed,
		Notes:  &notes,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, qcdomain.ResultPassed, updated.Result)
	require.Equal(t, notes, updated.Notes)

	byID, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, qcdomain.ResultPassed, byID.Result)
}

func TestListFiltersByResult(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	for i, result := range []string{qcdomain.ResultPassed, qcdomain.ResultFailed, qcdomain.ResultPassed} {
		_, err := svc.Create(ctx, qcdomain.CreateRequest{
			ReportID:    fmt.Sprintf("QC-40%02d", i),
			ProductName: "Panels",
			Result:      result,
		})
		require.NoError(t, err)
	}

	passed, _, err := svc.List(ctx, qcdomain.ResultPassed, pagination.Pagination{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, passed, 2)

	_, _, err = svc.List(ctx, "bogus", pagination.Pagination{})
	require.ErrorIs(t, err, qcdomain.ErrInvalidResult)
}

func TestDeleteReport(t *testing.T) {
	svc := setupQCService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, qcdomain.CreateRequest{ReportID: "QC-5001", ProductName: "Panels"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "QC-5001"))

	_, err = svc.GetByID(ctx, "QC-5001")
	require.ErrorIs(t, err, qcdomain.ErrNotFound)
}
