package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanbot/pkg/order"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func carpetSnapshot(userID int64) order.Snapshot {
	area := 10.0
	price := 15000.0
	return order.Snapshot{
		UserID:   userID,
		Language: "ru",
		Draft: order.Draft{
			Category:        order.CategoryCarpet,
			TargetItemCount: 2,
			Items: []order.ItemSpec{
				{Index: 1, Size: "2x2", AreaM2: 4},
				{Index: 2, Size: "2x3", AreaM2: 6},
			},
			Address:       &order.Address{Kind: order.AddressManual, Text: "Tashkent, Chilonzor 5"},
			CustomerName:  "Alisher Usmanov",
			CustomerPhone: "+998 90 123-45-67",
			Pricing: order.Pricing{
				TotalAreaM2:  &area,
				PricePerUnit: &price,
				BaseCost:     150000,
				FinalCost:    150000,
			},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestSubmitAssignsSequentialNumbers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)
	second, err := s.Submit(ctx, carpetSnapshot(200), 200)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.OrderNumber)
	assert.Equal(t, int64(2), second.OrderNumber)
	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.Equal(t, order.StatusPending, first.Status)
}

func TestGetByNumberRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	submitted, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)

	got, err := s.GetByNumber(ctx, submitted.OrderNumber)
	require.NoError(t, err)

	assert.Equal(t, submitted.OrderID, got.OrderID)
	assert.Equal(t, order.CategoryCarpet, got.Snapshot.Draft.Category)
	assert.Len(t, got.Snapshot.Draft.Items, 2)
	assert.Equal(t, "Alisher Usmanov", got.Snapshot.Draft.CustomerName)
	require.NotNil(t, got.Snapshot.Draft.Pricing.TotalAreaM2)
	assert.InDelta(t, 10.0, *got.Snapshot.Draft.Pricing.TotalAreaM2, 0.001)
}

func TestGetByNumberNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetByNumber(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUserOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)
	_, err = s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)
	_, err = s.Submit(ctx, carpetSnapshot(200), 200)
	require.NoError(t, err)

	orders, err := s.ListUserOrders(ctx, 100)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Greater(t, orders[0].OrderNumber, orders[1].OrderNumber)
}

func TestChangeStatusRecordsHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)

	admin := order.Actor{ID: 1, Kind: "admin"}
	require.NoError(t, s.ChangeStatus(ctx, rec.OrderNumber, order.StatusAccepted, admin))
	require.NoError(t, s.ChangeStatus(ctx, rec.OrderNumber, order.StatusInProgress, admin))
	require.NoError(t, s.ChangeStatus(ctx, rec.OrderNumber, order.StatusCompleted, admin))

	got, err := s.GetByNumber(ctx, rec.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	history, err := s.StatusHistory(ctx, rec.OrderNumber)
	require.NoError(t, err)
	require.Len(t, history, 4) // submission + three changes
	assert.Equal(t, order.StatusPending, history[0].To)
	assert.Equal(t, order.StatusCompleted, history[3].To)
	assert.Equal(t, "admin", history[3].Actor.Kind)
}

func TestChangeStatusTerminalOrderRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)

	admin := order.Actor{ID: 1, Kind: "admin"}
	require.NoError(t, s.ChangeStatus(ctx, rec.OrderNumber, order.StatusCancelled, admin))

	err = s.ChangeStatus(ctx, rec.OrderNumber, order.StatusAccepted, admin)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)

	require.NoError(t, s.ChangeStatus(ctx, rec.OrderNumber, order.StatusPending, order.Actor{Kind: "admin"}))

	history, err := s.StatusHistory(ctx, rec.OrderNumber)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSaveFeedback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)

	require.NoError(t, s.SaveFeedback(ctx, rec.OrderNumber, 5, "Отличная работа"))

	got, err := s.GetByNumber(ctx, rec.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "Отличная работа", got.Feedback)

	assert.ErrorIs(t, s.SaveFeedback(ctx, 999, 4, ""), ErrNotFound)
	assert.Error(t, s.SaveFeedback(ctx, rec.OrderNumber, 6, ""))
}

func TestListOrdersFilterByStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.Submit(ctx, carpetSnapshot(100), 100)
	require.NoError(t, err)
	_, err = s.Submit(ctx, carpetSnapshot(200), 200)
	require.NoError(t, err)

	require.NoError(t, s.ChangeStatus(ctx, a.OrderNumber, order.StatusAccepted, order.Actor{Kind: "admin"}))

	accepted, err := s.ListOrders(ctx, order.StatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, a.OrderNumber, accepted[0].OrderNumber)

	all, err := s.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
