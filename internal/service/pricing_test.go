package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/repository"
)

func newPricingService(t *testing.T) PricingService {
	t.Helper()
	db := newTestDB(t)
	seedTestCatalog(t, db)
	return NewPricingService(repository.NewCatalogRepository(db))
}

func TestQuoteCustom_BasePlusToppings(t *testing.T) {
	svc := newPricingService(t)
	ctx := context.Background()

	// Chocolate/Mediano 250.00, toppings 15.00 + 10.00 -> 275.00
	price, err := svc.QuoteCustom(ctx, domain.CustomSelection{
		FlavorID:   "chocolate",
		SizeID:     "mediano",
		ToppingIDs: []string{"almonds", "sprinkles"},
	})
	require.NoError(t, err)
	assert.Equal(t, "275.00", price.StringFixed(2))
}

func TestQuoteCustom_WithFilling(t *testing.T) {
	svc := newPricingService(t)
	ctx := context.Background()

	fillingID := "dulce-de-leche"
	price, err := svc.QuoteCustom(ctx, domain.CustomSelection{
		FlavorID:  "chocolate",
		SizeID:    "mediano",
		FillingID: &fillingID,
	})
	require.NoError(t, err)
	assert.Equal(t, "285.00", price.StringFixed(2))
}

func TestQuoteCustom_PriceNotConfigured(t *testing.T) {
	svc := newPricingService(t)
	ctx := context.Background()

	_, err := svc.QuoteCustom(ctx, domain.CustomSelection{
		FlavorID: "vanilla",
		SizeID:   "grande", // no price entry for this pair
	})
	assert.ErrorIs(t, err, domain.ErrPriceNotConfigured)
}

func TestQuoteCustom_InvalidFilling(t *testing.T) {
	svc := newPricingService(t)
	ctx := context.Background()

	for _, fillingID := range []string{"no-such-filling", "discontinued-filling"} {
		id := fillingID
		_, err := svc.QuoteCustom(ctx, domain.CustomSelection{
			FlavorID:  "chocolate",
			SizeID:    "mediano",
			FillingID: &id,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidFillingSelection, fillingID)
	}
}

func TestQuoteCustom_InvalidTopping(t *testing.T) {
	svc := newPricingService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		toppingIDs []string
	}{
		{"missing topping fails whole quote", []string{"almonds", "no-such-topping"}},
		{"unavailable topping fails whole quote", []string{"almonds", "gold-leaf"}},
		{"duplicate topping ids rejected", []string{"almonds", "almonds"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QuoteCustom(ctx, domain.CustomSelection{
				FlavorID:   "chocolate",
				SizeID:     "mediano",
				ToppingIDs: tt.toppingIDs,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidToppingSelection)
		})
	}
}

func TestQuoteCustom_RoundsHalfUpOnceAtEnd(t *testing.T) {
	db := newTestDB(t)
	seedTestCatalog(t, db)
	require.NoError(t, db.Create(&model.PriceEntry{
		FlavorID: "chocolate", SizeID: "grande", UnitPrice: dec(t, "100.124"),
	}).Error)
	require.NoError(t, db.Create(&model.Topping{
		ID: "half-cent", Name: "Half Cent", ExtraPrice: dec(t, "0.131"), Available: true,
	}).Error)

	svc := NewPricingService(repository.NewCatalogRepository(db))

	// 100.124 + 0.131 = 100.255 -> 100.26 half-up on the sum. Rounding each
	// term first would give 100.12 + 0.13 = 100.25.
	price, err := svc.QuoteCustom(context.Background(), domain.CustomSelection{
		FlavorID:   "chocolate",
		SizeID:     "grande",
		ToppingIDs: []string{"half-cent"},
	})
	require.NoError(t, err)
	assert.Equal(t, "100.26", price.StringFixed(2))
}

func TestQuoteCustom_Deterministic(t *testing.T) {
	svc := newPricingService(t)
	ctx := context.Background()

	sel := domain.CustomSelection{
		FlavorID:   "chocolate",
		SizeID:     "mediano",
		ToppingIDs: []string{"sprinkles", "almonds"},
	}

	first, err := svc.QuoteCustom(ctx, sel)
	require.NoError(t, err)
	second, err := svc.QuoteCustom(ctx, sel)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}
