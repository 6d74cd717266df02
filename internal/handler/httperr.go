package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gelato-storefront/internal/domain"
)

// businessError maps the typed domain errors onto HTTP responses:
// configuration errors 422, resource errors 409 with the current actual
// value, consistency errors 409/402, missing records 404. Anything unmapped
// bubbles up as a 500.
func businessError(c echo.Context, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":      "insufficient_stock",
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
		})
	}

	var pointsErr *domain.InsufficientPointsError
	if errors.As(err, &pointsErr) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":   "insufficient_points",
			"balance": pointsErr.Balance,
		})
	}

	var transitionErr *domain.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error": "illegal_status_transition",
			"from":  string(transitionErr.From),
			"to":    string(transitionErr.To),
		})
	}

	var amountErr *domain.AmountMismatchError
	if errors.As(err, &amountErr) {
		return c.JSON(http.StatusPaymentRequired, map[string]interface{}{
			"error":    "amount_mismatch",
			"expected": amountErr.Expected.StringFixed(2),
			"got":      amountErr.Got.StringFixed(2),
		})
	}

	switch {
	case errors.Is(err, domain.ErrPriceNotConfigured):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "price_not_configured"})
	case errors.Is(err, domain.ErrInvalidFillingSelection):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid_filling_selection"})
	case errors.Is(err, domain.ErrInvalidToppingSelection):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid_topping_selection"})
	case errors.Is(err, domain.ErrUnknownLineKind):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown_line_kind"})
	case errors.Is(err, domain.ErrDuplicateCapture):
		return c.JSON(http.StatusConflict, map[string]string{"error": "duplicate_capture"})
	case errors.Is(err, domain.ErrOrderAlreadyPaid):
		return c.JSON(http.StatusConflict, map[string]string{"error": "order_already_paid"})
	case errors.Is(err, domain.ErrStaleStatus):
		return c.JSON(http.StatusConflict, map[string]string{"error": "stale_status"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not_found"})
	}

	return err
}
