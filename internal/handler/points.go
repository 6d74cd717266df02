package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gelato-storefront/internal/dto"
	"gelato-storefront/internal/middleware"
	"gelato-storefront/internal/service"
)

type PointsHandler struct {
	pointsService service.PointsService
}

func NewPointsHandler(pointsService service.PointsService) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
	}
}

func (h *PointsHandler) Balance(c echo.Context) error {
	ctx := c.Request().Context()

	balance, err := h.pointsService.Balance(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.PointsBalanceResponse{Balance: balance})
}

func (h *PointsHandler) Earn(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.EarnPointsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid expires_at")
		}
		expiresAt = &parsed
	}

	err := h.pointsService.Earn(ctx, middleware.UserID(c), req.OrderID, req.Points, expiresAt)
	if err != nil {
		return businessError(c, err)
	}

	return h.Balance(c)
}

func (h *PointsHandler) Redeem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RedeemPointsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	balance, err := h.pointsService.Redeem(ctx, middleware.UserID(c), req.Points)
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.PointsBalanceResponse{Balance: balance})
}
