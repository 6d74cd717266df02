package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/repository"
)

// OrderService owns delivery-status transitions. A transition updates the
// order's cached status and appends exactly one history row in the same
// transaction; the history is the source of truth.
type OrderService interface {
	Get(ctx context.Context, orderID string) (*model.Order, error)
	History(ctx context.Context, orderID string) ([]*model.OrderStatusHistory, error)
	ChangeStatus(ctx context.Context, orderID string, to domain.DeliveryStatus, changedBy, notes string) (domain.DeliveryStatus, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	locks     *KeyMutex
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, locks *KeyMutex) OrderService {
	return &orderServiceImpl{
		db:        db,
		orderRepo: orderRepo,
		locks:     locks,
	}
}

func orderLockKey(orderID string) string {
	return "order:" + orderID
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *orderServiceImpl) History(ctx context.Context, orderID string) ([]*model.OrderStatusHistory, error) {
	return s.orderRepo.History(ctx, orderID)
}

func (s *orderServiceImpl) ChangeStatus(ctx context.Context, orderID string, to domain.DeliveryStatus, changedBy, notes string) (domain.DeliveryStatus, error) {
	if !to.Valid() {
		return "", &domain.IllegalTransitionError{From: "", To: to}
	}

	unlock := s.locks.Lock(orderLockKey(orderID))
	defer unlock()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("find order: %w", err)
	}

	from := order.Status
	if !domain.CanTransition(from, to) {
		return "", &domain.IllegalTransitionError{From: from, To: to}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.orderRepo.UpdateStatusIf(ctx, tx, orderID, from, to)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if rows == 0 {
			// Lost a concurrent transition race; caller retries against the
			// current state.
			return domain.ErrStaleStatus
		}

		return s.orderRepo.AppendHistory(ctx, tx, &model.OrderStatusHistory{
			OrderID:   orderID,
			Status:    to,
			ChangedBy: changedBy,
			Notes:     notes,
		})
	})
	if err != nil {
		return "", err
	}

	return to, nil
}
