package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/dto"
	"gelato-storefront/internal/middleware"
	"gelato-storefront/internal/service"
)

type OrderHandler struct {
	orderService   service.OrderService
	paymentService service.PaymentService
}

func NewOrderHandler(orderService service.OrderService, paymentService service.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("orderID")

	order, err := h.orderService.Get(ctx, orderID)
	if err != nil {
		return businessError(c, err)
	}

	paid, err := h.paymentService.IsPaid(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order, paid))
}

func (h *OrderHandler) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.orderService.History(ctx, c.Param("orderID"))
	if err != nil {
		return err
	}

	resp := make([]dto.StatusHistoryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = dto.StatusHistoryResponse{
			Status:    string(entry.Status),
			ChangedBy: entry.ChangedBy,
			Notes:     entry.Notes,
			ChangedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ChangeStatus(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("orderID")

	var req dto.ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	status, err := h.orderService.ChangeStatus(ctx, orderID,
		domain.DeliveryStatus(req.Status), middleware.UserID(c), req.Notes)
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ChangeStatusResponse{
		OrderID: orderID,
		Status:  string(status),
	})
}
