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

// CartService owns all cart mutation. Every operation runs under the cart's
// mutex and one DB transaction that rewrites the touched line and the cart
// total together, so total == Σ subtotals holds at every observable point.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	AddLine(ctx context.Context, userID string, selection domain.Selection, quantity int) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, userID string, lineID uint, quantity int) (*model.Cart, error)
	RemoveLine(ctx context.Context, userID string, lineID uint) (*model.Cart, error)
	Clear(ctx context.Context, userID string) (*model.Cart, error)
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	pricing     PricingService
	locks       *KeyMutex
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	pricing PricingService,
	locks *KeyMutex,
) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		pricing:     pricing,
		locks:       locks,
	}
}

func cartLockKey(userID string) string {
	return "cart:" + userID
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	return s.cartRepo.FindOrCreateByUser(ctx, userID)
}

func (s *cartServiceImpl) AddLine(ctx context.Context, userID string, selection domain.Selection, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	unlock := s.locks.Lock(cartLockKey(userID))
	defer unlock()

	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	switch sel := selection.(type) {
	case domain.CatalogSelection:
		err = s.addCatalogLine(ctx, cart, sel, quantity)
	case domain.CustomSelection:
		err = s.addCustomLine(ctx, cart, sel, quantity)
	default:
		err = fmt.Errorf("unknown selection kind %T", selection)
	}
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUser(ctx, userID)
}

func (s *cartServiceImpl) addCatalogLine(ctx context.Context, cart *model.Cart, sel domain.CatalogSelection, quantity int) error {
	product, err := s.catalogRepo.FindProduct(ctx, sel.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s not found", sel.ProductID)
		}
		return fmt.Errorf("find product: %w", err)
	}

	// Duplicate catalog adds merge into the existing line; the stock check
	// sees the whole cart-context quantity. The first captured price wins.
	var existing *model.CartLine
	for i := range cart.Lines {
		line := &cart.Lines[i]
		if line.Kind == model.LineKindCatalog && line.ProductID != nil && *line.ProductID == sel.ProductID {
			existing = line
			break
		}
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Stock {
		return &domain.InsufficientStockError{ProductID: product.ID, Available: product.Stock}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing != nil {
			subtotal := existing.UnitPrice.Mul(decimal.NewFromInt(int64(requested)))
			if err := s.cartRepo.UpdateLine(ctx, tx, existing.ID, requested, subtotal); err != nil {
				return fmt.Errorf("update merged line: %w", err)
			}
		} else {
			productID := product.ID
			line := &model.CartLine{
				CartID:    cart.ID,
				Kind:      model.LineKindCatalog,
				ProductID: &productID,
				Quantity:  quantity,
				UnitPrice: product.UnitPrice,
				Subtotal:  product.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
			}
			if err := s.cartRepo.CreateLine(ctx, tx, line); err != nil {
				return fmt.Errorf("create cart line: %w", err)
			}
		}

		return s.recomputeTotal(ctx, tx, cart.ID)
	})
}

func (s *cartServiceImpl) addCustomLine(ctx context.Context, cart *model.Cart, sel domain.CustomSelection, quantity int) error {
	unitPrice, err := s.pricing.QuoteCustom(ctx, sel)
	if err != nil {
		return err
	}

	toppings := make([]model.CartLineTopping, len(sel.ToppingIDs))
	for i, id := range sel.ToppingIDs {
		toppings[i] = model.CartLineTopping{ToppingID: id}
	}

	flavorID := sel.FlavorID
	sizeID := sel.SizeID
	line := &model.CartLine{
		CartID:    cart.ID,
		Kind:      model.LineKindCustom,
		FlavorID:  &flavorID,
		SizeID:    &sizeID,
		FillingID: sel.FillingID,
		Toppings:  toppings,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cartRepo.CreateLine(ctx, tx, line); err != nil {
			return fmt.Errorf("create cart line: %w", err)
		}
		return s.recomputeTotal(ctx, tx, cart.ID)
	})
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID string, lineID uint, quantity int) (*model.Cart, error) {
	// A request for quantity 0 is a RemoveLine, not a zero-quantity line.
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	unlock := s.locks.Lock(cartLockKey(userID))
	defer unlock()

	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	line, err := s.ownedLine(ctx, cart, lineID)
	if err != nil {
		return nil, err
	}

	if line.Kind == model.LineKindCatalog {
		stock, err := s.catalogRepo.GetStock(ctx, s.db, *line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("read stock: %w", err)
		}
		if quantity > stock {
			// Cart left unchanged; caller gets the actual availability.
			return nil, &domain.InsufficientStockError{ProductID: *line.ProductID, Available: stock}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		if err := s.cartRepo.UpdateLine(ctx, tx, line.ID, quantity, subtotal); err != nil {
			return fmt.Errorf("update line: %w", err)
		}
		return s.recomputeTotal(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUser(ctx, userID)
}

func (s *cartServiceImpl) RemoveLine(ctx context.Context, userID string, lineID uint) (*model.Cart, error) {
	unlock := s.locks.Lock(cartLockKey(userID))
	defer unlock()

	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	line, err := s.ownedLine(ctx, cart, lineID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cartRepo.DeleteLine(ctx, tx, line.ID); err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		return s.recomputeTotal(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUser(ctx, userID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	unlock := s.locks.Lock(cartLockKey(userID))
	defer unlock()

	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cartRepo.DeleteLines(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		return s.cartRepo.UpdateTotal(ctx, tx, cart.ID, decimal.Zero)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUser(ctx, userID)
}

func (s *cartServiceImpl) ownedLine(ctx context.Context, cart *model.Cart, lineID uint) (*model.CartLine, error) {
	line, err := s.cartRepo.FindLine(ctx, s.db, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line %d: %w", lineID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("find line: %w", err)
	}
	// A line in another user's cart is indistinguishable from a missing one.
	if line.CartID != cart.ID {
		return nil, fmt.Errorf("cart line %d: %w", lineID, gorm.ErrRecordNotFound)
	}
	return line, nil
}

// recomputeTotal rewrites the cached cart total from the line subtotals in
// the same transaction as the line mutation.
func (s *cartServiceImpl) recomputeTotal(ctx context.Context, tx *gorm.DB, cartID uint) error {
	cart, err := s.cartRepo.FindByID(ctx, tx, cartID)
	if err != nil {
		return fmt.Errorf("reload cart: %w", err)
	}

	total := decimal.Zero
	for _, line := range cart.Lines {
		total = total.Add(line.Subtotal)
	}

	if err := s.cartRepo.UpdateTotal(ctx, tx, cartID, total); err != nil {
		return fmt.Errorf("update total: %w", err)
	}
	return nil
}
