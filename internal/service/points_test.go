package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/repository"
)

func newPointsService(t *testing.T) (PointsService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	// expiry days 0: entries without an explicit expiry never expire
	svc := NewPointsService(db, repository.NewPointsRepository(db), NewKeyMutex(), 0)
	return svc, db
}

func TestRedeem_BalanceBoundary(t *testing.T) {
	svc, _ := newPointsService(t)
	ctx := context.Background()

	// 100 earned, 30 redeemed -> balance 70
	require.NoError(t, svc.Earn(ctx, "user-1", nil, 100, nil))
	_, err := svc.Redeem(ctx, "user-1", 30)
	require.NoError(t, err)

	// 71 exceeds the balance
	_, err = svc.Redeem(ctx, "user-1", 71)
	var pointsErr *domain.InsufficientPointsError
	require.ErrorAs(t, err, &pointsErr)
	assert.Equal(t, int64(70), pointsErr.Balance)

	// redeeming the exact balance leaves 0, not negative
	balance, err := svc.Redeem(ctx, "user-1", 70)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestBalance_ExcludesExpiredButKeepsLedger(t *testing.T) {
	svc, db := newPointsService(t)
	ctx := context.Background()

	expired := time.Now().Add(-24 * time.Hour)
	valid := time.Now().Add(24 * time.Hour)
	require.NoError(t, svc.Earn(ctx, "user-1", nil, 50, &expired))
	require.NoError(t, svc.Earn(ctx, "user-1", nil, 40, &valid))

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	// expired entries are excluded, never deleted
	entries, err := repository.NewPointsRepository(db).Entries(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestEarn_RecordsOrderReference(t *testing.T) {
	svc, db := newPointsService(t)
	ctx := context.Background()

	orderID := "order-1"
	require.NoError(t, svc.Earn(ctx, "user-1", &orderID, 25, nil))

	entries, err := repository.NewPointsRepository(db).Entries(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].OrderID)
	assert.Equal(t, orderID, *entries[0].OrderID)
}

func TestEarn_RejectsNonPositivePoints(t *testing.T) {
	svc, _ := newPointsService(t)
	assert.Error(t, svc.Earn(context.Background(), "user-1", nil, 0, nil))
}

func TestRedeem_ConcurrentRedemptionsSerialized(t *testing.T) {
	svc, _ := newPointsService(t)
	ctx := context.Background()

	require.NoError(t, svc.Earn(ctx, "user-1", nil, 100, nil))

	// two concurrent redemptions of 80 cannot both pass a balance of 100
	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(ctx, "user-1", 80)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)
}
