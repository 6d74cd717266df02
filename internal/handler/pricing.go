package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gelato-storefront/internal/domain"
	"gelato-storefront/internal/dto"
	"gelato-storefront/internal/service"
)

type PricingHandler struct {
	pricingService service.PricingService
}

func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

func (h *PricingHandler) Quote(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	price, err := h.pricingService.QuoteCustom(ctx, domain.CustomSelection{
		FlavorID:   req.FlavorID,
		SizeID:     req.SizeID,
		FillingID:  req.FillingID,
		ToppingIDs: req.ToppingIDs,
	})
	if err != nil {
		return businessError(c, err)
	}

	return c.JSON(http.StatusOK, dto.QuoteResponse{UnitPrice: price.StringFixed(2)})
}
