package repository

import (
	"context"

	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateLines(ctx context.Context, tx *gorm.DB, lines []*model.OrderLine) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
	SetGatewayOrderID(ctx context.Context, tx *gorm.DB, orderID, gatewayOrderID string) error
	// UpdateStatusIf performs the compare-and-set that serializes concurrent
	// transitions: the update only fires while the order is still at from.
	// Reports rows affected; 0 means the caller lost the race.
	UpdateStatusIf(ctx context.Context, tx *gorm.DB, orderID string, from, to domain.DeliveryStatus) (int64, error)
	AppendHistory(ctx context.Context, tx *gorm.DB, entry *model.OrderStatusHistory) error
	History(ctx context.Context, orderID string) ([]*model.OrderStatusHistory, error)
	LatestHistoryStatus(ctx context.Context, orderID string) (domain.DeliveryStatus, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateLines(ctx context.Context, tx *gorm.DB, lines []*model.OrderLine) error {
	return tx.WithContext(ctx).Create(&lines).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) SetGatewayOrderID(ctx context.Context, tx *gorm.DB, orderID, gatewayOrderID string) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("gateway_order_id", gatewayOrderID).Error
}

func (r *orderRepoImpl) UpdateStatusIf(ctx context.Context, tx *gorm.DB, orderID string, from, to domain.DeliveryStatus) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		UpdateColumn("status", to)

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *orderRepoImpl) AppendHistory(ctx context.Context, tx *gorm.DB, entry *model.OrderStatusHistory) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *orderRepoImpl) History(ctx context.Context, orderID string) ([]*model.OrderStatusHistory, error) {
	var entries []*model.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *orderRepoImpl) LatestHistoryStatus(ctx context.Context, orderID string) (domain.DeliveryStatus, error) {
	var entry model.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		First(&entry).Error

	if err != nil {
		return "", err
	}

	return entry.Status, nil
}
