package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/pizzaria/internal/clock"
	stockdomain "github.com/smallbiznis/pizzaria/internal/stock/domain"
	ledgerdomain "github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"github.com/smallbiznis/pizzaria/internal/stockledger/repository"
	"github.com/smallbiznis/pizzaria/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (ledgerdomain.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerdomain.StockAdjustment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func outcomeAt(orderID string, status stockdomain.OutcomeStatus, at time.Time) *stockdomain.Outcome {
	return &stockdomain.Outcome{
		OrderID:        orderID,
		Status:         status,
		PizzasProduced: 2,
		CookingMinutes: 30,
		OvenHoursAdded: 0.5,
		Consumptions: []stockdomain.Consumption{
			{IngredientID: "mussarela", Requested: 0.6, Consumed: 0.6},
		},
		SkippedFlavors: []string{"Portuguesa"},
		AppliedAt:      at,
	}
}

func TestRecordPersistsOutcome(t *testing.T) {
	svc, db := newTestService(t)
	at := time.Date(2024, 8, 1, 11, 0, 0, 0, time.UTC)

	entry, err := svc.Record(context.Background(), outcomeAt("42", stockdomain.OutcomeApplied, at))
	require.NoError(t, err)
	require.NotZero(t, entry.ID)

	var stored ledgerdomain.StockAdjustment
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	require.Equal(t, "42", stored.OrderID)
	require.Equal(t, "applied", stored.Status)
	require.Equal(t, 30, stored.CookingMinutes)
	require.Len(t, stored.Consumptions, 1)
	require.Equal(t, "mussarela", stored.Consumptions[0].IngredientID)
	require.Equal(t, []string{"Portuguesa"}, []string(stored.SkippedFlavors))
	require.Empty(t, stored.MachineTransitions)
	require.True(t, at.Equal(stored.CreatedAt))
}

func TestRecordRejectsEmptyOutcome(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Record(context.Background(), nil)
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidOutcome)

	_, err = svc.Record(context.Background(), &stockdomain.Outcome{})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidOutcome)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2024, 8, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		status := stockdomain.OutcomeApplied
		if i == 2 {
			status = stockdomain.OutcomeFailed
		}
		_, err := svc.Record(ctx, outcomeAt(fmt.Sprintf("order-%d", i), status, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	failed, err := svc.List(ctx, ledgerdomain.ListRequest{Status: "failed"})
	require.NoError(t, err)
	require.Len(t, failed.Adjustments, 1)
	require.Equal(t, "order-2", failed.Adjustments[0].OrderID)
	require.False(t, failed.HasMore)

	byOrder, err := svc.List(ctx, ledgerdomain.ListRequest{OrderID: "order-4"})
	require.NoError(t, err)
	require.Len(t, byOrder.Adjustments, 1)

	first, err := svc.List(ctx, ledgerdomain.ListRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, first.Adjustments, 2)
	require.True(t, first.HasMore)
	require.Equal(t, "order-4", first.Adjustments[0].OrderID)
	require.Equal(t, "order-3", first.Adjustments[1].OrderID)

	second, err := svc.List(ctx, ledgerdomain.ListRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: first.NextPageToken}})
	require.NoError(t, err)
	require.Len(t, second.Adjustments, 2)
	require.Equal(t, "order-2", second.Adjustments[0].OrderID)
	require.Equal(t, "order-1", second.Adjustments[1].OrderID)
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, ledgerdomain.ListRequest{Status: "pending"})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidStatus)

	_, err = svc.List(ctx, ledgerdomain.ListRequest{Pagination: pagination.Pagination{PageToken: "%%%"}})
	require.ErrorIs(t, err, ledgerdomain.ErrInvalidPageToken)
}

func TestRepositoryRejectsDuplicateID(t *testing.T) {
	svc, db := newTestService(t)
	entry, err := svc.Record(context.Background(), outcomeAt("7", stockdomain.OutcomeApplied, time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	dup := *entry
	err = repository.Provide().Insert(context.Background(), db, &dup)
	require.ErrorIs(t, err, ledgerdomain.ErrDuplicateEntry)
}
