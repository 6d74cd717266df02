package repository

import (
	"context"

	"gorm.io/gorm"

	"gelato-storefront/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error
	// ExistsExternalID and IsPaid take the tx handle so reconciliation can
	// check and write under one transaction.
	ExistsExternalID(ctx context.Context, tx *gorm.DB, externalTransactionID string) (bool, error)
	// IsPaid is queried, never cached: an order is paid iff it has at least
	// one completed transaction row.
	IsPaid(ctx context.Context, tx *gorm.DB, orderID string) (bool, error)
	FindByOrder(ctx context.Context, orderID string) ([]*model.PaymentTransaction, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error {
	return tx.WithContext(ctx).Create(transaction).Error
}

func (r *paymentRepoImpl) ExistsExternalID(ctx context.Context, tx *gorm.DB, externalTransactionID string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("external_transaction_id = ?", externalTransactionID).
		Count(&count).Error

	return count > 0, err
}

func (r *paymentRepoImpl) IsPaid(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("order_id = ?", orderID).
		Where("status = ?", model.PaymentStatusCompleted).
		Count(&count).Error

	return count > 0, err
}

func (r *paymentRepoImpl) FindByOrder(ctx context.Context, orderID string) ([]*model.PaymentTransaction, error) {
	var transactions []*model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&transactions).Error

	if err != nil {
		return nil, err
	}

	return transactions, nil
}
