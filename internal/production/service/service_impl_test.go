package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	productionrepository "github.com/smitnayi/metamorph-inventory/internal/production/repository"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductionService(t *testing.T) productiondomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&productiondomain.Order{}, &productiondomain.Log{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    productionrepository.Provide(),
		LogRepo: productionrepository.ProvideLogRepository(),
	})
}

func TestCreateStartsPending(t *testing.T) {
	svc := setupProductionService(t)

	order, err := svc.Create(context.Background(), productiondomain.CreateRequest{
		OrderID:     "ORD-1001",
		ProductName: "Fence panels",
		Quantity:    200,
	})
	require.NoError(t, err)
	require.Equal(t, productiondomain.StatusPending, order.Status)
	require.Nil(t, order.CompletedAt)
}

func TestCreateRejectsDuplicateOrderID(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels"})
	require.ErrorIs(t, err, productiondomain.ErrOrderExists)
}

func TestTransitionHappyPath(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels"})
	require.NoError(t, err)

	order, err := svc.Transition(ctx, "ORD-1001", productiondomain.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, productiondomain.StatusInProgress, order.Status)
	require.Nil(t, order.CompletedAt)

	order, err = svc.Transition(ctx, "ORD-1001", productiondomain.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, productiondomain.StatusCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels"})
	require.NoError(t, err)

	// Completion requires passing through in_progress.
	_, err = svc.Transition(ctx, "ORD-1001", productiondomain.StatusCompleted)
	require.ErrorIs(t, err, productiondomain.ErrInvalidTransition)

	_, err = svc.Transition(ctx, "ORD-1001", productiondomain.StatusCancelled)
	require.NoError(t, err)

	// Cancelled is terminal.
	_, err = svc.Transition(ctx, "ORD-1001", productiondomain.StatusInProgress)
	require.ErrorIs(t, err, productiondomain.ErrInvalidTransition)

	_, err = svc.Transition(ctx, "ORD-1001", "shipped")
	require.ErrorIs(t, err, productiondomain.ErrInvalidStatus)
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, "ORD-1001", productiondomain.StatusInProgress)
	require.NoError(t, err)

	first, err := svc.Transition(ctx, "ORD-1001", productiondomain.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	time.Sleep(5 * time.Millisecond)
	second, err := svc.Transition(ctx, "ORD-1001", productiondomain.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	require.True(t, first.CompletedAt.Equal(*second.CompletedAt), "completion timestamp is stamped once and never overwritten")
}

func TestUpdateValidatesFields(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels", Quantity: 10})
	require.NoError(t, err)

	name := ""
	_, err = svc.Update(ctx, productiondomain.UpdateRequest{ID: created.ID, ProductName: &name})
	require.ErrorIs(t, err, productiondomain.ErrInvalidProductName)

	bad := -1
	_, err = svc.Update(ctx, productiondomain.UpdateRequest{ID: created.ID, Quantity: &bad})
	require.ErrorIs(t, err, productiondomain.ErrInvalidQuantity)

	good := 25
	updated, err := svc.Update(ctx, productiondomain.UpdateRequest{ID: created.ID, Quantity: &good})
	require.NoError(t, err)
	require.Equal(t, 25, updated.Quantity)
}

func TestListPaginatesByCursor(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, productiondomain.CreateRequest{
			OrderID:     fmt.Sprintf("ORD-10%02d", i),
			ProductName: "Panels",
		})
		require.NoError(t, err)
	}

	firstPage, pageInfo, err := svc.List(ctx, "", pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.True(t, pageInfo.HasMore)
	require.Equal(t, "ORD-1004", firstPage[0].OrderID, "newest order comes first")
	require.Equal(t, "ORD-1003", firstPage[1].OrderID)

	secondPage, pageInfo, err := svc.List(ctx, "", pagination.Pagination{PageSize: 2, PageToken: pageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	require.True(t, pageInfo.HasMore)
	require.Equal(t, "ORD-1002", secondPage[0].OrderID)
	require.Equal(t, "ORD-1001", secondPage[1].OrderID)

	lastPage, pageInfo, err := svc.List(ctx, "", pagination.Pagination{PageSize: 2, PageToken: pageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, lastPage, 1)
	require.Equal(t, "ORD-1000", lastPage[0].OrderID, "oldest order comes last")
	require.False(t, pageInfo.HasMore)
}

func TestListFiltersByStatus(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1", ProductName: "Panels"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-2", ProductName: "Panels"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, "ORD-2", productiondomain.StatusInProgress)
	require.NoError(t, err)

	pending, _, err := svc.List(ctx, productiondomain.StatusPending, pagination.Pagination{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "ORD-1", pending[0].OrderID)

	_, _, err = svc.List(ctx, "bogus", pagination.Pagination{})
	require.ErrorIs(t, err, productiondomain.ErrInvalidStatus)
}

func TestCreateLogStampsDate(t *testing.T) {
	svc := setupProductionService(t)

	entry, err := svc.CreateLog(context.Background(), productiondomain.LogCreateRequest{
		ProductName:  "Fence panels",
		Quantity:     120,
		OperatorName: "R. Mehta",
	})
	require.NoError(t, err)
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), entry.Date)
	require.Equal(t, 120, entry.Quantity)
	require.Equal(t, "R. Mehta", entry.OperatorName)
}

func TestCreateLogValidates(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.CreateLog(ctx, productiondomain.LogCreateRequest{OperatorName: "R. Mehta"})
	require.ErrorIs(t, err, productiondomain.ErrInvalidProductName)

	_, err = svc.CreateLog(ctx, productiondomain.LogCreateRequest{ProductName: "Panels"})
	require.ErrorIs(t, err, productiondomain.ErrInvalidOperator)

	_, err = svc.CreateLog(ctx, productiondomain.LogCreateRequest{
		ProductName: "Panels", OperatorName: "R. Mehta", Quantity: -4,
	})
	require.ErrorIs(t, err, productiondomain.ErrInvalidQuantity)
}

func TestListLogsNewestFirst(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateLog(ctx, productiondomain.LogCreateRequest{
			ProductName:  fmt.Sprintf("Batch %d", i),
			Quantity:     10 * i,
			OperatorName: "R. Mehta",
		})
		require.NoError(t, err)
	}

	logs, err := svc.ListLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "Batch 2", logs[0].ProductName)
	require.Equal(t, "Batch 1", logs[1].ProductName)
}

func TestDeleteLog(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	entry, err := svc.CreateLog(ctx, productiondomain.LogCreateRequest{
		ProductName: "Panels", Quantity: 5, OperatorName: "R. Mehta",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLog(ctx, entry.ID))
	require.ErrorIs(t, svc.DeleteLog(ctx, entry.ID), productiondomain.ErrNotFound)

	logs, err := svc.ListLogs(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestDeleteOrder(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, productiondomain.CreateRequest{OrderID: "ORD-1001", ProductName: "Panels"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "ORD-1001"))

	_, err = svc.GetByID(ctx, "ORD-1001")
	require.ErrorIs(t, err, productiondomain.ErrNotFound)
}
