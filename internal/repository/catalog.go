package repository

import (
	"context"

	"gorm.io/gorm"

	"gelato-storefront/internal/model"
)

// CatalogRepository reads catalog state for pricing and owns the stock
// counter. The core never writes catalog metadata.
type CatalogRepository interface {
	FindPriceEntry(ctx context.Context, flavorID, sizeID string) (*model.PriceEntry, error)
	FindFlavor(ctx context.Context, flavorID string) (*model.Flavor, error)
	FindSize(ctx context.Context, sizeID string) (*model.Size, error)
	FindFilling(ctx context.Context, fillingID string) (*model.Filling, error)
	FindToppings(ctx context.Context, toppingIDs []string) ([]*model.Topping, error)
	FindProduct(ctx context.Context, productID string) (*model.Product, error)
	GetStock(ctx context.Context, tx *gorm.DB, productID string) (int, error)
	// DecrementStock re-validates availability under the row's single-writer
	// discipline: the conditional update only fires when stock covers the
	// quantity. It reports rows affected; 0 means stock vanished since the
	// pre-flight check.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) (int64, error)
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepoImpl{
		db: db,
	}
}

func (r *catalogRepoImpl) FindPriceEntry(ctx context.Context, flavorID, sizeID string) (*model.PriceEntry, error) {
	var entry model.PriceEntry
	err := r.db.WithContext(ctx).
		Where("flavor_id = ? AND size_id = ?", flavorID, sizeID).
		First(&entry).Error

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *catalogRepoImpl) FindFlavor(ctx context.Context, flavorID string) (*model.Flavor, error) {
	var flavor model.Flavor
	err := r.db.WithContext(ctx).
		Where("id = ?", flavorID).
		First(&flavor).Error

	if err != nil {
		return nil, err
	}

	return &flavor, nil
}

func (r *catalogRepoImpl) FindSize(ctx context.Context, sizeID string) (*model.Size, error) {
	var size model.Size
	err := r.db.WithContext(ctx).
		Where("id = ?", sizeID).
		First(&size).Error

	if err != nil {
		return nil, err
	}

	return &size, nil
}

func (r *catalogRepoImpl) FindFilling(ctx context.Context, fillingID string) (*model.Filling, error) {
	var filling model.Filling
	err := r.db.WithContext(ctx).
		Where("id = ?", fillingID).
		First(&filling).Error

	if err != nil {
		return nil, err
	}

	return &filling, nil
}

func (r *catalogRepoImpl) FindToppings(ctx context.Context, toppingIDs []string) ([]*model.Topping, error) {
	var toppings []*model.Topping
	err := r.db.WithContext(ctx).
		Where("id IN ?", toppingIDs).
		Find(&toppings).Error

	if err != nil {
		return nil, err
	}

	return toppings, nil
}

func (r *catalogRepoImpl) FindProduct(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *catalogRepoImpl) GetStock(ctx context.Context, tx *gorm.DB, productID string) (int, error) {
	var product model.Product
	err := tx.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

func (r *catalogRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
