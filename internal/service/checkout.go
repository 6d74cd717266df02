package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gelato-storefront/internal/client"
	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/repository"
)

const defaultCurrency = "MXN"

type CheckoutRequest struct {
	Address       string
	PaymentMethod model.PaymentType
	// RedeemPoints applies a loyalty discount at the configured rate.
	RedeemPoints int64
	// CardNonce is required for card payments.
	CardNonce string
}

type CheckoutResult struct {
	OrderID     string
	Total       decimal.Decimal
	Status      domain.DeliveryStatus
	ApprovalURL string
}

// CheckoutService converts a cart into an order: commit-time stock
// re-validation and decrement, line snapshots, the order's first history row,
// optional points redemption and the cart clear all happen in one
// transaction. Payment intent creation follows the commit.
type CheckoutService interface {
	Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error)
	// CompletePaypalCapture finishes the approval flow: the buyer returned
	// from the gateway, so capture the funds and reconcile the result.
	CompletePaypalCapture(ctx context.Context, gatewayOrderID string) (*model.PaymentTransaction, error)
}

type checkoutServiceImpl struct {
	db           *gorm.DB
	cartRepo     repository.CartRepository
	catalogRepo  repository.CatalogRepository
	orderRepo    repository.OrderRepository
	points       PointsService
	payments     PaymentService
	paypalClient client.PaypalClient
	cardClient   client.CardClient
	locks        *KeyMutex
	redeemRate   decimal.Decimal
	baseURL      string
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	orderRepo repository.OrderRepository,
	points PointsService,
	payments PaymentService,
	paypalClient client.PaypalClient,
	cardClient client.CardClient,
	locks *KeyMutex,
	redeemRate decimal.Decimal,
	baseURL string,
) CheckoutService {
	return &checkoutServiceImpl{
		db:           db,
		cartRepo:     cartRepo,
		catalogRepo:  catalogRepo,
		orderRepo:    orderRepo,
		points:       points,
		payments:     payments,
		paypalClient: paypalClient,
		cardClient:   cardClient,
		locks:        locks,
		redeemRate:   redeemRate,
		baseURL:      baseURL,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error) {
	switch req.PaymentMethod {
	case model.PaymentTypeCard, model.PaymentTypePaypal, model.PaymentTypeCash:
	default:
		return nil, fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}

	unlock := s.locks.Lock(cartLockKey(userID))
	defer unlock()

	cart, err := s.cartRepo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	orderLines, err := s.snapshotLines(ctx, cart)
	if err != nil {
		return nil, err
	}

	total := cart.Total
	if req.RedeemPoints > 0 {
		discount := s.redeemRate.Mul(decimal.NewFromInt(req.RedeemPoints))
		if discount.GreaterThan(total) {
			discount = total
		}
		total = total.Sub(discount)
	}

	order := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.StatusPending,
		Total:         total,
		Currency:      defaultCurrency,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-validate stock under the row's single-writer discipline; the
		// pre-flight check in the cart may be stale by now. Any line that
		// lost the race fails the whole checkout, never a partial decrement.
		for _, line := range cart.Lines {
			if line.Kind != model.LineKindCatalog {
				continue
			}
			rows, err := s.catalogRepo.DecrementStock(ctx, tx, *line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if rows == 0 {
				available, err := s.catalogRepo.GetStock(ctx, tx, *line.ProductID)
				if err != nil {
					return fmt.Errorf("read stock: %w", err)
				}
				return &domain.InsufficientStockError{ProductID: *line.ProductID, Available: available}
			}
		}

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range orderLines {
			line.OrderID = order.ID
		}
		if err := s.orderRepo.CreateLines(ctx, tx, orderLines); err != nil {
			return fmt.Errorf("create order lines: %w", err)
		}

		// Creating the order is its first transition: entering pending writes
		// the implicit history row.
		err := s.orderRepo.AppendHistory(ctx, tx, &model.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    domain.StatusPending,
			ChangedBy: userID,
			Notes:     "order created",
		})
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if req.RedeemPoints > 0 {
			if err := s.points.RedeemTx(ctx, tx, userID, req.RedeemPoints); err != nil {
				return err
			}
		}

		if err := s.cartRepo.DeleteLines(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart lines: %w", err)
		}
		return s.cartRepo.UpdateTotal(ctx, tx, cart.ID, decimal.Zero)
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		OrderID: order.ID,
		Total:   order.Total,
		Status:  order.Status,
	}

	// The order is committed at this point. If the gateway call fails the
	// result still carries the order id so payment can be retried against
	// the pending order.
	if err := s.createPaymentIntent(ctx, order, req, result); err != nil {
		return result, fmt.Errorf("create payment intent: %w", err)
	}

	return result, nil
}

// createPaymentIntent runs after the order commit: card charges settle
// synchronously, paypal returns an approval URL for a later capture callback,
// cash (POS register) reconciles immediately against a generated receipt.
func (s *checkoutServiceImpl) createPaymentIntent(ctx context.Context, order *model.Order, req CheckoutRequest, result *CheckoutResult) error {
	switch req.PaymentMethod {
	case model.PaymentTypePaypal:
		intent, err := s.paypalClient.CreateIntent(ctx, order.Total, order.Currency, s.baseURL)
		if err != nil {
			return fmt.Errorf("paypal create intent: %w", err)
		}
		if err := s.orderRepo.SetGatewayOrderID(ctx, s.db, order.ID, intent.GatewayOrderID); err != nil {
			return fmt.Errorf("store gateway order id: %w", err)
		}
		result.ApprovalURL = intent.ApproveURL

	case model.PaymentTypeCard:
		externalID, err := s.cardClient.Charge(ctx, req.CardNonce, order.Total)
		if err != nil {
			return fmt.Errorf("card charge: %w", err)
		}
		_, err = s.payments.Reconcile(ctx, CaptureInput{
			OrderID:               order.ID,
			PaymentType:           model.PaymentTypeCard,
			ExternalTransactionID: externalID,
			Amount:                order.Total,
			Currency:              order.Currency,
			Succeeded:             true,
		})
		if err != nil {
			return fmt.Errorf("reconcile card capture: %w", err)
		}

	case model.PaymentTypeCash:
		receiptID := "cash-" + uuid.NewString()
		_, err := s.payments.Reconcile(ctx, CaptureInput{
			OrderID:               order.ID,
			PaymentType:           model.PaymentTypeCash,
			ExternalTransactionID: receiptID,
			Amount:                order.Total,
			Currency:              order.Currency,
			Succeeded:             true,
		})
		if err != nil {
			return fmt.Errorf("reconcile cash payment: %w", err)
		}
	}

	return nil
}

func (s *checkoutServiceImpl) CompletePaypalCapture(ctx context.Context, gatewayOrderID string) (*model.PaymentTransaction, error) {
	order, err := s.orderRepo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("find order for gateway id %s: %w", gatewayOrderID, err)
	}

	capture, err := s.paypalClient.ConfirmCapture(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("confirm paypal capture: %w", err)
	}

	return s.payments.Reconcile(ctx, CaptureInput{
		OrderID:               order.ID,
		PaymentType:           model.PaymentTypePaypal,
		ExternalTransactionID: capture.CaptureID,
		Amount:                capture.Amount,
		Currency:              capture.Currency,
		Succeeded:             capture.Status == "COMPLETED",
	})
}

// snapshotLines freezes product names and captured prices so later catalog
// edits do not rewrite the order.
func (s *checkoutServiceImpl) snapshotLines(ctx context.Context, cart *model.Cart) ([]*model.OrderLine, error) {
	lines := make([]*model.OrderLine, 0, len(cart.Lines))

	for i := range cart.Lines {
		cartLine := &cart.Lines[i]

		var name string
		switch sel := cartLine.Selection().(type) {
		case domain.CatalogSelection:
			product, err := s.catalogRepo.FindProduct(ctx, sel.ProductID)
			if err != nil {
				return nil, fmt.Errorf("find product %s: %w", sel.ProductID, err)
			}
			name = product.Name
		case domain.CustomSelection:
			flavor, err := s.catalogRepo.FindFlavor(ctx, sel.FlavorID)
			if err != nil {
				return nil, fmt.Errorf("find flavor %s: %w", sel.FlavorID, err)
			}
			size, err := s.catalogRepo.FindSize(ctx, sel.SizeID)
			if err != nil {
				return nil, fmt.Errorf("find size %s: %w", sel.SizeID, err)
			}
			name = fmt.Sprintf("Custom %s (%s)", flavor.Name, size.Name)
		default:
			return nil, fmt.Errorf("cart line %d has unknown kind %q", cartLine.ID, cartLine.Kind)
		}

		lines = append(lines, &model.OrderLine{
			Kind:        cartLine.Kind,
			ProductID:   cartLine.ProductID,
			ProductName: name,
			Quantity:    cartLine.Quantity,
			UnitPrice:   cartLine.UnitPrice,
			Subtotal:    cartLine.Subtotal,
		})
	}

	return lines, nil
}
