package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gelato-storefront/internal/model"
)

// SeedCatalog installs a demo catalog. Existing rows are left untouched so
// reseeding never rewrites prices already referenced by carts or orders.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	flavors := []model.Flavor{
		{ID: "chocolate", Name: "Chocolate", Available: true},
		{ID: "vanilla", Name: "Vanilla", Available: true},
		{ID: "strawberry", Name: "Strawberry", Available: true},
	}

	sizes := []model.Size{
		{ID: "chico", Name: "Chico"},
		{ID: "mediano", Name: "Mediano"},
		{ID: "grande", Name: "Grande"},
	}

	prices := []model.PriceEntry{
		{FlavorID: "chocolate", SizeID: "chico", UnitPrice: decimal.RequireFromString("180.00")},
		{FlavorID: "chocolate", SizeID: "mediano", UnitPrice: decimal.RequireFromString("250.00")},
		{FlavorID: "chocolate", SizeID: "grande", UnitPrice: decimal.RequireFromString("320.00")},
		{FlavorID: "vanilla", SizeID: "chico", UnitPrice: decimal.RequireFromString("170.00")},
		{FlavorID: "vanilla", SizeID: "mediano", UnitPrice: decimal.RequireFromString("240.00")},
		{FlavorID: "strawberry", SizeID: "mediano", UnitPrice: decimal.RequireFromString("255.00")},
	}

	fillings := []model.Filling{
		{ID: "dulce-de-leche", Name: "Dulce de Leche", ExtraPrice: decimal.RequireFromString("35.00"), Available: true},
		{ID: "cream-cheese", Name: "Cream Cheese", ExtraPrice: decimal.RequireFromString("30.00"), Available: true},
	}

	toppings := []model.Topping{
		{ID: "almonds", Name: "Almonds", ExtraPrice: decimal.RequireFromString("15.00"), Available: true},
		{ID: "sprinkles", Name: "Sprinkles", ExtraPrice: decimal.RequireFromString("10.00"), Available: true},
		{ID: "cherries", Name: "Cherries", ExtraPrice: decimal.RequireFromString("12.00"), Available: true},
	}

	products := []model.Product{
		{ID: "brownie-box", Name: "Brownie Box", UnitPrice: decimal.RequireFromString("120.00"), Currency: "MXN", Stock: 25},
		{ID: "cookie-dozen", Name: "Cookie Dozen", UnitPrice: decimal.RequireFromString("95.00"), Currency: "MXN", Stock: 40},
	}

	seed := func(value interface{}) error {
		return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
	}

	for _, batch := range []interface{}{&flavors, &sizes, &prices, &fillings, &toppings, &products} {
		if err := seed(batch); err != nil {
			return err
		}
	}

	return nil
}
