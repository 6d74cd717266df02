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

func newPaymentService(t *testing.T) (PaymentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewPaymentService(db, repository.NewOrderRepository(db), repository.NewPaymentRepository(db))
	return svc, db
}

func TestReconcile_AmountMismatchKeepsOrderPending(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	// capture of 500.00 against an order total of 515.00
	_, err := svc.Reconcile(ctx, CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypePaypal,
		ExternalTransactionID: "ext-100",
		Amount:                dec(t, "500.00"),
		Currency:              "MXN",
		Succeeded:             true,
	})

	var amountErr *domain.AmountMismatchError
	require.ErrorAs(t, err, &amountErr)
	assert.Equal(t, "515.00", amountErr.Expected.StringFixed(2))
	assert.Equal(t, "500.00", amountErr.Got.StringFixed(2))

	paid, err := svc.IsPaid(ctx, "order-1")
	require.NoError(t, err)
	assert.False(t, paid)

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-1").Error)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestReconcile_CurrencyMismatchRejected(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	_, err := svc.Reconcile(ctx, CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypeCard,
		ExternalTransactionID: "ext-101",
		Amount:                dec(t, "515.00"),
		Currency:              "USD",
		Succeeded:             true,
	})

	var amountErr *domain.AmountMismatchError
	assert.ErrorAs(t, err, &amountErr)
}

func TestReconcile_ExactAmountCompletes(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	transaction, err := svc.Reconcile(ctx, CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypePaypal,
		ExternalTransactionID: "ext-200",
		Amount:                dec(t, "515.00"),
		Currency:              "MXN",
		Succeeded:             true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, transaction.Status)

	paid, err := svc.IsPaid(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestReconcile_DuplicateExternalIDRejected(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)
	seedOrder(t, db, "order-2", domain.StatusPending)

	capture := CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypePaypal,
		ExternalTransactionID: "ext-300",
		Amount:                dec(t, "515.00"),
		Currency:              "MXN",
		Succeeded:             true,
	}

	_, err := svc.Reconcile(ctx, capture)
	require.NoError(t, err)

	// gateway retry replays the same external id
	_, err = svc.Reconcile(ctx, capture)
	assert.ErrorIs(t, err, domain.ErrDuplicateCapture)

	// and the same id can never pay a second order either
	capture.OrderID = "order-2"
	_, err = svc.Reconcile(ctx, capture)
	assert.ErrorIs(t, err, domain.ErrDuplicateCapture)
}

func TestReconcile_SecondCaptureWithFreshIDCannotPayTwice(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	capture := CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypePaypal,
		ExternalTransactionID: "ext-500",
		Amount:                dec(t, "515.00"),
		Currency:              "MXN",
		Succeeded:             true,
	}

	_, err := svc.Reconcile(ctx, capture)
	require.NoError(t, err)

	// a second successful capture under a fresh external id must be rejected,
	// not recorded as a second payment
	capture.ExternalTransactionID = "ext-501"
	_, err = svc.Reconcile(ctx, capture)
	assert.ErrorIs(t, err, domain.ErrOrderAlreadyPaid)

	var completed int64
	require.NoError(t, db.Model(&model.PaymentTransaction{}).
		Where("order_id = ? AND status = ?", "order-1", model.PaymentStatusCompleted).
		Count(&completed).Error)
	assert.Equal(t, int64(1), completed)
}

func TestReconcile_ConcurrentReplaysOneWinner(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	capture := CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypePaypal,
		ExternalTransactionID: "ext-600",
		Amount:                dec(t, "515.00"),
		Currency:              "MXN",
		Succeeded:             true,
	}

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reconcile(ctx, capture)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			// the loser gets the typed rejection, never a raw constraint error
			assert.ErrorIs(t, err, domain.ErrDuplicateCapture)
		}
	}
	assert.Equal(t, 1, succeeded)

	var completed int64
	require.NoError(t, db.Model(&model.PaymentTransaction{}).
		Where("order_id = ? AND status = ?", "order-1", model.PaymentStatusCompleted).
		Count(&completed).Error)
	assert.Equal(t, int64(1), completed)
}

func TestReconcile_GatewayDeclineWritesFailedRow(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := context.Background()
	seedOrder(t, db, "order-1", domain.StatusPending)

	transaction, err := svc.Reconcile(ctx, CaptureInput{
		OrderID:               "order-1",
		PaymentType:           model.PaymentTypeCard,
		ExternalTransactionID: "ext-400",
		Amount:                dec(t, "515.00"),
		Currency:              "MXN",
		Succeeded:             false,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, transaction.Status)

	paid, err := svc.IsPaid(ctx, "order-1")
	require.NoError(t, err)
	assert.False(t, paid)

	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", "order-1").Error)
	assert.Equal(t, domain.StatusPending, order.Status)
}
