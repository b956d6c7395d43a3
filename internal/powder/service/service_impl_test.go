package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	powderrepository "github.com/smitnayi/metamorph-inventory/internal/powder/repository"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPowderService(t *testing.T) powderdomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&powderdomain.Powder{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  powderrepository.Provide(),
	})
}

func price(v float64) *float64 { return &v }

func TestCreateDerivesStatusAndValue(t *testing.T) {
	svc := setupPowderService(t)

	created, err := svc.Create(context.Background(), powderdomain.CreateRequest{
		SKU:          "PWD-RAL9016",
		Name:         "Traffic White",
		Color:        "RAL 9016",
		CurrentStock: 30,
		MinLevel:     40,
		PricePerKG:   price(8.5),
	})
	require.NoError(t, err)
	require.Equal(t, powderdomain.StatusCritical, created.Status)
	require.Equal(t, 255.0, created.StockValue)
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	svc := setupPowderService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, powderdomain.CreateRequest{SKU: "PWD-1", Name: "White"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, powderdomain.CreateRequest{SKU: "PWD-1", Name: "White again"})
	require.ErrorIs(t, err, powderdomain.ErrSKUExists)
}

func TestCreateValidation(t *testing.T) {
	svc := setupPowderService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, powderdomain.CreateRequest{SKU: "", Name: "White"})
	require.ErrorIs(t, err, powderdomain.ErrInvalidSKU)

	_, err = svc.Create(ctx, powderdomain.CreateRequest{SKU: "PWD-1", Name: ""})
	require.ErrorIs(t, err, powderdomain.ErrInvalidName)

	_, err = svc.Create(ctx, powderdomain.CreateRequest{SKU: "PWD-1", Name: "White", CurrentStock: -1})
	require.ErrorIs(t, err, powderdomain.ErrInvalidStock)
}

func TestUpdateMovesStatusBand(t *testing.T) {
	svc := setupPowderService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, powderdomain.CreateRequest{
		SKU:          "PWD-1",
		Name:         "White",
		CurrentStock: 100,
		MinLevel:     40,
	})
	require.NoError(t, err)
	require.Equal(t, powderdomain.StatusInStock, created.Status)

	stock := 45.0
	updated, err := svc.Update(ctx, powderdomain.UpdateRequest{ID: created.ID, CurrentStock: &stock})
	require.NoError(t, err)
	require.Equal(t, powderdomain.StatusLowStock, updated.Status)
}

func TestStatsAggregatesInventory(t *testing.T) {
	svc := setupPowderService(t)
	ctx := context.Background()

	seed := []powderdomain.CreateRequest{
		{SKU: "PWD-1", Name: "White", CurrentStock: 100, MinLevel: 40, PricePerKG: price(10)},
		{SKU: "PWD-2", Name: "Black", CurrentStock: 45, MinLevel: 40, PricePerKG: price(8)},
		{SKU: "PWD-3", Name: "Blue", CurrentStock: 20, MinLevel: 30, PricePerKG: price(9)},
	}
	for _, req := range seed {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalItems)
	require.Equal(t, 165.0, stats.TotalStockKG)
	require.Equal(t, 100*10.0+45*8.0+20*9.0, stats.TotalValue)
	require.Equal(t, 1, stats.LowStockCount)
	require.Equal(t, 1, stats.CriticalCount)
}

func TestListPaginates(t *testing.T) {
	svc := setupPowderService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, powderdomain.CreateRequest{
			SKU:  fmt.Sprintf("PWD-%d", i),
			Name: fmt.Sprintf("Color %d", i),
		})
		require.NoError(t, err)
	}

	page, pageInfo, err := svc.List(ctx, pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.True(t, pageInfo.HasMore)

	rest, pageInfo, err := svc.List(ctx, pagination.Pagination{PageSize: 2, PageToken: pageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.False(t, pageInfo.HasMore)
}

func TestDeletePowder(t *testing.T) {
	svc := setupPowderService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, powderdomain.CreateRequest{SKU: "PWD-1", Name: "White"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, powderdomain.ErrNotFound)
}
