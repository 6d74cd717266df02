package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/repository"
)

// PointsService is an append-only ledger. Earn records what it is told and
// never derives points from money; Redeem serializes balance check + append
// per user so two concurrent redemptions cannot both pass the balance.
type PointsService interface {
	Earn(ctx context.Context, userID string, orderID *string, points int64, expiresAt *time.Time) error
	Redeem(ctx context.Context, userID string, points int64) (int64, error)
	// RedeemTx joins an enclosing transaction (checkout discount) while still
	// holding the per-user lock.
	RedeemTx(ctx context.Context, tx *gorm.DB, userID string, points int64) error
	Balance(ctx context.Context, userID string) (int64, error)
}

type pointsServiceImpl struct {
	db            *gorm.DB
	pointsRepo    repository.PointsRepository
	locks         *KeyMutex
	defaultExpiry time.Duration
}

func NewPointsService(db *gorm.DB, pointsRepo repository.PointsRepository, locks *KeyMutex, defaultExpiryDays int) PointsService {
	return &pointsServiceImpl{
		db:            db,
		pointsRepo:    pointsRepo,
		locks:         locks,
		defaultExpiry: time.Duration(defaultExpiryDays) * 24 * time.Hour,
	}
}

func pointsLockKey(userID string) string {
	return "points:" + userID
}

func (s *pointsServiceImpl) Earn(ctx context.Context, userID string, orderID *string, points int64, expiresAt *time.Time) error {
	if points < 1 {
		return fmt.Errorf("points must be at least 1")
	}

	if expiresAt == nil && s.defaultExpiry > 0 {
		exp := time.Now().Add(s.defaultExpiry)
		expiresAt = &exp
	}

	entry := &model.PointsLedgerEntry{
		UserID:    userID,
		OrderID:   orderID,
		Type:      model.PointsEntryEarned,
		Points:    points,
		ExpiresAt: expiresAt,
	}

	if err := s.pointsRepo.Append(ctx, s.db, entry); err != nil {
		return fmt.Errorf("append earned entry: %w", err)
	}
	return nil
}

func (s *pointsServiceImpl) Redeem(ctx context.Context, userID string, points int64) (int64, error) {
	err := s.RedeemTx(ctx, s.db, userID, points)
	if err != nil {
		return 0, err
	}
	return s.Balance(ctx, userID)
}

func (s *pointsServiceImpl) RedeemTx(ctx context.Context, tx *gorm.DB, userID string, points int64) error {
	if points < 1 {
		return fmt.Errorf("points must be at least 1")
	}

	unlock := s.locks.Lock(pointsLockKey(userID))
	defer unlock()

	balance, err := s.balance(ctx, tx, userID)
	if err != nil {
		return err
	}

	if points > balance {
		return &domain.InsufficientPointsError{Balance: balance}
	}

	entry := &model.PointsLedgerEntry{
		UserID: userID,
		Type:   model.PointsEntryRedeemed,
		Points: points,
	}

	if err := s.pointsRepo.Append(ctx, tx, entry); err != nil {
		return fmt.Errorf("append redeemed entry: %w", err)
	}
	return nil
}

func (s *pointsServiceImpl) Balance(ctx context.Context, userID string) (int64, error) {
	return s.balance(ctx, s.db, userID)
}

// balance = non-expired earned minus redeemed, expiry evaluated now. Reads go
// through tx so a redemption inside a transaction sees its own writes.
func (s *pointsServiceImpl) balance(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	now := time.Now()

	earned, err := s.pointsRepo.SumEarnedValid(ctx, tx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("sum earned points: %w", err)
	}

	redeemed, err := s.pointsRepo.SumRedeemed(ctx, tx, userID)
	if err != nil {
		return 0, fmt.Errorf("sum redeemed points: %w", err)
	}

	return earned - redeemed, nil
}
