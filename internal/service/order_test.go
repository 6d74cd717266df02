package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/repository"
)

func newOrderService(t *testing.T) (OrderService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewOrderService(db, repository.NewOrderRepository(db), NewKeyMutex()), db
}

func seedOrder(t *testing.T, db *gorm.DB, orderID string, status domain.DeliveryStatus) {
	t.Helper()

	require.NoError(t, db.Create(&model.Order{
		ID:            orderID,
		UserID:        "user-1",
		PaymentMethod: model.PaymentTypeCash,
		Status:        status,
		Total:         dec(t, "515.00"),
		Currency:      "MXN",
	}).Error)

	require.NoError(t, db.Create(&model.OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		ChangedBy: "user-1",
		Notes:     "order created",
	}).Error)
}

func TestChangeStatus_UpdatesOrderAndAppendsHistory(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	status, err := svc.ChangeStatus(ctx, "order-1", domain.StatusPreparing, "staff-7", "in the oven")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, status)

	order, err := svc.Get(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, order.Status)

	history, err := svc.History(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusPreparing, history[1].Status)
	assert.Equal(t, "staff-7", history[1].ChangedBy)

	// the cached status always equals the latest history row
	latest, err := repository.NewOrderRepository(db).LatestHistoryStatus(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, order.Status, latest)
}

func TestChangeStatus_RejectsSkippedStates(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	// pending -> delivered skips preparing and in_delivery
	_, err := svc.ChangeStatus(ctx, "order-1", domain.StatusDelivered, "staff-7", "")

	var transitionErr *domain.IllegalTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusPending, transitionErr.From)
	assert.Equal(t, domain.StatusDelivered, transitionErr.To)

	// no history row for the rejected transition
	history, err := svc.History(ctx, "order-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChangeStatus_TerminalStatesHaveNoExit(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-done", domain.StatusDelivered)
	seedOrder(t, db, "order-dead", domain.StatusCancelled)

	_, err := svc.ChangeStatus(ctx, "order-done", domain.StatusPreparing, "staff-7", "")
	assert.Error(t, err)

	_, err = svc.ChangeStatus(ctx, "order-dead", domain.StatusPending, "staff-7", "")
	assert.Error(t, err)
}

func TestChangeStatus_CancelFromAnyNonTerminal(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	for i, from := range []domain.DeliveryStatus{domain.StatusPending, domain.StatusPreparing, domain.StatusInDelivery} {
		orderID := string(rune('a'+i)) + "-order"
		seedOrder(t, db, orderID, from)

		status, err := svc.ChangeStatus(ctx, orderID, domain.StatusCancelled, "staff-7", "customer no-show")
		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, domain.StatusCancelled, status)
	}
}

func TestChangeStatus_ConcurrentCallsOneWinner(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ChangeStatus(ctx, "order-1", domain.StatusPreparing, "staff-7", "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent transition must win")

	history, err := svc.History(ctx, "order-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
