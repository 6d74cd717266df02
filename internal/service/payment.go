package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/repository"
)

// CaptureInput is the amount/id/status contract the gateway hands back,
// regardless of transport (webhook, poll, or synchronous charge).
type CaptureInput struct {
	OrderID               string
	PaymentType           model.PaymentType
	ExternalTransactionID string
	Amount                decimal.Decimal
	Currency              string
	Succeeded             bool
}

// PaymentService reconciles external captures against order totals. Duplicate
// capture detection makes retried gateway confirmations idempotent: the
// external call may repeat, the internal write never does.
type PaymentService interface {
	Reconcile(ctx context.Context, capture CaptureInput) (*model.PaymentTransaction, error)
	IsPaid(ctx context.Context, orderID string) (bool, error)
	Transactions(ctx context.Context, orderID string) ([]*model.PaymentTransaction, error)
}

type paymentServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

func NewPaymentService(db *gorm.DB, orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository) PaymentService {
	return &paymentServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *paymentServiceImpl) Reconcile(ctx context.Context, capture CaptureInput) (*model.PaymentTransaction, error) {
	order, err := s.orderRepo.FindByID(ctx, capture.OrderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	transaction := &model.PaymentTransaction{
		OrderID:               order.ID,
		PaymentType:           capture.PaymentType,
		ExternalTransactionID: capture.ExternalTransactionID,
		Amount:                capture.Amount,
		Currency:              capture.Currency,
	}

	// Check and write under one transaction so a replay cannot slip between
	// them. A failed row still commits; only its business error is reported
	// after the commit.
	var mismatchErr error
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.paymentRepo.ExistsExternalID(ctx, tx, capture.ExternalTransactionID)
		if err != nil {
			return fmt.Errorf("check capture id: %w", err)
		}
		if exists {
			return domain.ErrDuplicateCapture
		}

		if !capture.Succeeded {
			// Gateway-declined capture: record it, leave the order in pending.
			transaction.Status = model.PaymentStatusFailed
			return s.createTransaction(ctx, tx, transaction)
		}

		// No partial payments: the capture must match the order total exactly,
		// at minor-unit precision, in the order's currency.
		if capture.Currency != order.Currency || !capture.Amount.Round(2).Equal(order.Total.Round(2)) {
			transaction.Status = model.PaymentStatusFailed
			if err := s.createTransaction(ctx, tx, transaction); err != nil {
				return err
			}
			mismatchErr = &domain.AmountMismatchError{Expected: order.Total, Got: capture.Amount}
			return nil
		}

		// At most one completed row per order, whatever external id the
		// second capture carries.
		paid, err := s.paymentRepo.IsPaid(ctx, tx, order.ID)
		if err != nil {
			return fmt.Errorf("check paid state: %w", err)
		}
		if paid {
			return domain.ErrOrderAlreadyPaid
		}

		transaction.Status = model.PaymentStatusCompleted
		return s.createTransaction(ctx, tx, transaction)
	})
	if err != nil {
		return nil, err
	}
	if mismatchErr != nil {
		return nil, mismatchErr
	}

	return transaction, nil
}

// createTransaction stores the row, reporting a concurrent replay that beat
// us to the unique external id as a duplicate capture.
func (s *paymentServiceImpl) createTransaction(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error {
	if err := s.paymentRepo.Create(ctx, tx, transaction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCapture
		}
		return fmt.Errorf("store %s transaction: %w", transaction.Status, err)
	}
	return nil
}

func (s *paymentServiceImpl) IsPaid(ctx context.Context, orderID string) (bool, error) {
	return s.paymentRepo.IsPaid(ctx, s.db, orderID)
}

func (s *paymentServiceImpl) Transactions(ctx context.Context, orderID string) ([]*model.PaymentTransaction, error) {
	return s.paymentRepo.FindByOrder(ctx, orderID)
}
