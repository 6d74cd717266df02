package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"gelato-storefront/internal/client"
	"gelato-storefront/internal/config"
	"gelato-storefront/internal/handler"
	"gelato-storefront/internal/repository"
	"gelato-storefront/internal/server"
	"gelato-storefront/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	redeemRate, err := decimal.NewFromString(cfg.Points.RedeemRate)
	if err != nil {
		log.Fatal("invalid POINTS_REDEEM_RATE:", err)
	}

	db := client.InitSqliteClient(cfg.DatabaseDSN)
	if err := repository.SeedCatalog(context.Background(), db); err != nil {
		log.Fatal("seed catalog:", err)
	}

	paypalClient := client.NewPaypalClient(&cfg.Paypal)
	cardClient := client.NewCardClient(&cfg.BrainTree)

	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	locks := service.NewKeyMutex()

	pricingService := service.NewPricingService(catalogRepo)
	cartService := service.NewCartService(db, cartRepo, catalogRepo, pricingService, locks)
	pointsService := service.NewPointsService(db, pointsRepo, locks, cfg.Points.ExpiryDays)
	paymentService := service.NewPaymentService(db, orderRepo, paymentRepo)
	orderService := service.NewOrderService(db, orderRepo, locks)
	checkoutService := service.NewCheckoutService(
		db, cartRepo, catalogRepo, orderRepo,
		pointsService, paymentService,
		paypalClient, cardClient,
		locks, redeemRate, cfg.BaseURL,
	)

	srv := server.NewServer(
		handler.NewPricingHandler(pricingService),
		handler.NewCartHandler(cartService),
		handler.NewCheckoutHandler(checkoutService),
		handler.NewOrderHandler(orderService, paymentService),
		handler.NewPaymentHandler(paymentService, checkoutService),
		handler.NewPointsHandler(pointsService),
		cfg.Auth.JWTSecret,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
