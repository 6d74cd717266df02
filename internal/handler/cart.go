package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gelato-storefront/internal/dto"
	"gelato-storefront/internal/middleware"
	"gelato-storefront/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) AddLine(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddLineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	selection, err := req.Selection()
	if err != nil {
		return businessError(c, err)
	}

	cart, err := h.cartService.AddLine(ctx, middleware.UserID(c), selection, req.Quantity)
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	lineID, err := strconv.ParseUint(c.Param("lineID"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid line id")
	}

	var req dto.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cart, err := h.cartService.UpdateQuantity(ctx, middleware.UserID(c), uint(lineID), req.Quantity)
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()

	lineID, err := strconv.ParseUint(c.Param("lineID"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid line id")
	}

	cart, err := h.cartService.RemoveLine(ctx, middleware.UserID(c), uint(lineID))
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Clear(ctx, middleware.UserID(c))
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}
