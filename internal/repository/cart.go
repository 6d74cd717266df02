package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gelato-storefront/internal/model"
)

type CartRepository interface {
	FindOrCreateByUser(ctx context.Context, userID string) (*model.Cart, error)
	FindByID(ctx context.Context, tx *gorm.DB, cartID uint) (*model.Cart, error)
	FindLine(ctx context.Context, tx *gorm.DB, lineID uint) (*model.CartLine, error)
	CreateLine(ctx context.Context, tx *gorm.DB, line *model.CartLine) error
	UpdateLine(ctx context.Context, tx *gorm.DB, lineID uint, quantity int, subtotal decimal.Decimal) error
	DeleteLine(ctx context.Context, tx *gorm.DB, lineID uint) error
	DeleteLines(ctx context.Context, tx *gorm.DB, cartID uint) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, cartID uint, total decimal.Decimal) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) FindOrCreateByUser(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Toppings").
		Where("user_id = ?", userID).
		First(&cart).Error

	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cart = model.Cart{
		UserID: userID,
		Total:  decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, cartID uint) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Toppings").
		Where("id = ?", cartID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindLine(ctx context.Context, tx *gorm.DB, lineID uint) (*model.CartLine, error) {
	var line model.CartLine
	err := tx.WithContext(ctx).
		Preload("Toppings").
		Where("id = ?", lineID).
		First(&line).Error

	if err != nil {
		return nil, err
	}

	return &line, nil
}

func (r *cartRepoImpl) CreateLine(ctx context.Context, tx *gorm.DB, line *model.CartLine) error {
	return tx.WithContext(ctx).Create(line).Error
}

func (r *cartRepoImpl) UpdateLine(ctx context.Context, tx *gorm.DB, lineID uint, quantity int, subtotal decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.CartLine{}).
		Where("id = ?", lineID).
		Updates(map[string]interface{}{
			"quantity": quantity,
			"subtotal": subtotal,
		}).Error
}

func (r *cartRepoImpl) DeleteLine(ctx context.Context, tx *gorm.DB, lineID uint) error {
	if err := tx.WithContext(ctx).
		Where("cart_line_id = ?", lineID).
		Delete(&model.CartLineTopping{}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Where("id = ?", lineID).
		Delete(&model.CartLine{}).Error
}

func (r *cartRepoImpl) DeleteLines(ctx context.Context, tx *gorm.DB, cartID uint) error {
	err := tx.WithContext(ctx).
		Where("cart_line_id IN (?)",
			tx.Model(&model.CartLine{}).Select("id").Where("cart_id = ?", cartID),
		).
		Delete(&model.CartLineTopping{}).Error
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartLine{}).Error
}

func (r *cartRepoImpl) UpdateTotal(ctx context.Context, tx *gorm.DB, cartID uint, total decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("total", total).Error
}
