package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gelato-storefront/internal/dto"
	"gelato-storefront/internal/middleware"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.checkoutService.Checkout(ctx, middleware.UserID(c), service.CheckoutRequest{
		Address:       req.Address,
		PaymentMethod: model.PaymentType(req.PaymentMethod),
		RedeemPoints:  req.RedeemPoints,
		CardNonce:     req.CardNonce,
	})
	if err != nil {
		// A non-nil result means the order committed but the gateway call
		// failed; hand back the order id so the client can retry payment.
		if result != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error":    "payment_intent_failed",
				"order_id": result.OrderID,
			})
		}
		return businessError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:     result.OrderID,
		Total:       result.Total.StringFixed(2),
		Status:      string(result.Status),
		ApprovalURL: result.ApprovalURL,
	})
}
