package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"gelato-storefront/internal/dto"
	"gelato-storefront/internal/model"
	"gelato-storefront/internal/service"
)

type PaymentHandler struct {
	paymentService  service.PaymentService
	checkoutService service.CheckoutService
}

func NewPaymentHandler(paymentService service.PaymentService, checkoutService service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		checkoutService: checkoutService,
	}
}

// Capture is the gateway callback/poll target. Retried confirmations are
// safe: the duplicate-capture check rejects a replayed external id.
func (h *PaymentHandler) Capture(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CaptureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	transaction, err := h.paymentService.Reconcile(ctx, service.CaptureInput{
		OrderID:               req.OrderID,
		PaymentType:           model.PaymentType(req.PaymentType),
		ExternalTransactionID: req.ExternalTransactionID,
		Amount:                amount,
		Currency:              req.Currency,
		Succeeded:             req.Succeeded,
	})
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"order_id": transaction.OrderID,
		"status":   string(transaction.Status),
	})
}

// PaypalSuccess is the return URL the buyer lands on after approving the
// payment. PayPal appends the gateway order id as the token query param.
func (h *PaymentHandler) PaypalSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	gatewayOrderID := c.QueryParam("token")
	if gatewayOrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order token")
	}

	transaction, err := h.checkoutService.CompletePaypalCapture(ctx, gatewayOrderID)
	if err != nil {
		return businessError(c, err)
	}

	html := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Payment Processing</title>
	</head>
	<body>
		<h2>Payment approved</h2>
		<p>Your order ` + transaction.OrderID + ` is being prepared.</p>
	</body>
	</html>
	`

	return c.HTML(http.StatusOK, html)
}
