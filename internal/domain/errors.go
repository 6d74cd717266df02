package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Configuration errors: the requested combination is unavailable. Legitimate
// business states, never silently defaulted or skipped.
var (
	ErrPriceNotConfigured      = errors.New("no price configured for this flavor/size combination")
	ErrInvalidFillingSelection = errors.New("selected filling is missing or unavailable")
	ErrInvalidToppingSelection = errors.New("a selected topping is missing or unavailable")
)

// Consistency errors: a caller or upstream-system bug, rejected as-is.
var (
	ErrDuplicateCapture = errors.New("external transaction id already applied to an order")
	ErrOrderAlreadyPaid = errors.New("order already has a completed payment")
	ErrStaleStatus      = errors.New("order status changed concurrently, retry against current state")
	ErrUnknownLineKind  = errors.New("line kind must be catalog or custom")
)

// InsufficientStockError reports how many units are actually available so the
// caller can offer a corrected request.
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: %d available", e.ProductID, e.Available)
}

// InsufficientPointsError carries the current valid balance.
type InsufficientPointsError struct {
	Balance int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: balance is %d", e.Balance)
}

// IllegalTransitionError rejects a delivery-status transition that is not
// reachable from the current state.
type IllegalTransitionError struct {
	From DeliveryStatus
	To   DeliveryStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// AmountMismatchError rejects a capture whose amount does not equal the order
// total. Partial payments are not accepted.
type AmountMismatchError struct {
	Expected decimal.Decimal
	Got      decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("capture amount %s does not match order total %s", e.Got, e.Expected)
}
