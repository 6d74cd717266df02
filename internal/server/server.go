package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"gelato-storefront/internal/handler"
	appmiddleware "gelato-storefront/internal/middleware"
)

type Server struct {
	echo            *echo.Echo
	pricingHandler  *handler.PricingHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	pointsHandler   *handler.PointsHandler
	jwtSecret       string
}

func NewServer(
	pricingHandler *handler.PricingHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	pointsHandler *handler.PointsHandler,
	jwtSecret string,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		pricingHandler:  pricingHandler,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		orderHandler:    orderHandler,
		paymentHandler:  paymentHandler,
		pointsHandler:   pointsHandler,
		jwtSecret:       jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/pricing/quote", s.pricingHandler.Quote)

	// gateway callbacks, authenticated by the gateway contract not by user jwt
	api.POST("/payments/capture", s.paymentHandler.Capture)
	api.GET("/payments/paypal/success", s.paymentHandler.PaypalSuccess)

	auth := appmiddleware.AuthMiddleware(s.jwtSecret)

	// -------- cart --------
	cart := api.Group("/cart", auth)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/lines", s.cartHandler.AddLine)
	cart.PATCH("/lines/:lineID", s.cartHandler.UpdateQuantity)
	cart.DELETE("/lines/:lineID", s.cartHandler.RemoveLine)
	cart.DELETE("", s.cartHandler.Clear)

	api.POST("/checkout", s.checkoutHandler.Checkout, auth)

	// -------- orders --------
	orders := api.Group("/orders", auth)
	orders.GET("/:orderID", s.orderHandler.GetOrder)
	orders.GET("/:orderID/history", s.orderHandler.GetHistory)
	orders.POST("/:orderID/status", s.orderHandler.ChangeStatus)

	// -------- loyalty points --------
	points := api.Group("/points", auth)
	points.GET("/balance", s.pointsHandler.Balance)
	points.POST("/earn", s.pointsHandler.Earn)
	points.POST("/redeem", s.pointsHandler.Redeem)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
