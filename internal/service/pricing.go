package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/repository"
)

// PricingService derives the unit price of a custom configuration from the
// catalog price table. Pure over the current catalog snapshot: no writes, and
// identical inputs against unchanged catalog state yield identical output.
type PricingService interface {
	QuoteCustom(ctx context.Context, selection domain.CustomSelection) (decimal.Decimal, error)
}

type pricingServiceImpl struct {
	catalogRepo repository.CatalogRepository
}

func NewPricingService(catalogRepo repository.CatalogRepository) PricingService {
	return &pricingServiceImpl{
		catalogRepo: catalogRepo,
	}
}

func (s *pricingServiceImpl) QuoteCustom(ctx context.Context, selection domain.CustomSelection) (decimal.Decimal, error) {
	entry, err := s.catalogRepo.FindPriceEntry(ctx, selection.FlavorID, selection.SizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, domain.ErrPriceNotConfigured
		}
		return decimal.Zero, fmt.Errorf("find price entry: %w", err)
	}

	total := entry.UnitPrice

	if selection.FillingID != nil {
		filling, err := s.catalogRepo.FindFilling(ctx, *selection.FillingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, domain.ErrInvalidFillingSelection
			}
			return decimal.Zero, fmt.Errorf("find filling: %w", err)
		}
		if !filling.Available {
			return decimal.Zero, domain.ErrInvalidFillingSelection
		}
		total = total.Add(filling.ExtraPrice)
	}

	if len(selection.ToppingIDs) > 0 {
		seen := make(map[string]bool, len(selection.ToppingIDs))
		for _, id := range selection.ToppingIDs {
			if seen[id] {
				return decimal.Zero, domain.ErrInvalidToppingSelection
			}
			seen[id] = true
		}

		toppings, err := s.catalogRepo.FindToppings(ctx, selection.ToppingIDs)
		if err != nil {
			return decimal.Zero, fmt.Errorf("find toppings: %w", err)
		}

		// Fail the whole quote on any missing or unavailable topping rather
		// than silently dropping it and undercharging.
		if len(toppings) != len(selection.ToppingIDs) {
			return decimal.Zero, domain.ErrInvalidToppingSelection
		}
		for _, topping := range toppings {
			if !topping.Available {
				return decimal.Zero, domain.ErrInvalidToppingSelection
			}
			total = total.Add(topping.ExtraPrice)
		}
	}

	// Round half-up once at the end, never per term.
	return total.Round(2), nil
}
