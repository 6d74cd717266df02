package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gelato-storefront/internal/model"
)

type PointsRepository interface {
	Append(ctx context.Context, tx *gorm.DB, entry *model.PointsLedgerEntry) error
	// SumEarnedValid counts earned points that have not expired as of now.
	// Expired entries stay in the ledger; they just stop counting. The tx
	// handle lets redemption read through an enclosing transaction.
	SumEarnedValid(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (int64, error)
	SumRedeemed(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	Entries(ctx context.Context, userID string) ([]*model.PointsLedgerEntry, error)
}

type pointsRepoImpl struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepoImpl{
		db: db,
	}
}

func (r *pointsRepoImpl) Append(ctx context.Context, tx *gorm.DB, entry *model.PointsLedgerEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *pointsRepoImpl) SumEarnedValid(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (int64, error) {
	var total int64
	err := tx.WithContext(ctx).Model(&model.PointsLedgerEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Where("type = ?", model.PointsEntryEarned).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Scan(&total).Error

	return total, err
}

func (r *pointsRepoImpl) SumRedeemed(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	var total int64
	err := tx.WithContext(ctx).Model(&model.PointsLedgerEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Where("type = ?", model.PointsEntryRedeemed).
		Scan(&total).Error

	return total, err
}

func (r *pointsRepoImpl) Entries(ctx context.Context, userID string) ([]*model.PointsLedgerEntry, error) {
	var entries []*model.PointsLedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}
