package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/backend"
	"github.com/ikkim/storefront-backend/internal/cart"
	"github.com/ikkim/storefront-backend/internal/events"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/router"
	"github.com/ikkim/storefront-backend/internal/scheduler"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/internal/websocket"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting storefront backend", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"store_driver": cfg.Store.Driver,
		"log_level":    logLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the document store
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store connection", err)
		}
	}()

	if err := store.SeedCatalog(ctx); err != nil {
		logger.Warn("Failed to seed catalog", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token revocation
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()
	revoker := redis.NewTokenRevoker(redis.GetClient())

	publisher, err := events.New(&cfg.Events)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", err)
		}
	}()

	// Reactive state
	sessions := session.NewRegistry(store.Users)
	carts := cart.NewManager(store.Carts, sessions)

	// Initialize services
	authService := service.NewAuthService(
		store.Users,
		sessions,
		revoker,
		service.AdminCredential{
			Email:        cfg.Admin.Email,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	catalogService := service.NewCatalogService(store.Products, cfg.Shop.LowStockThreshold)
	orderService := service.NewOrderService(store.Orders, carts, publisher, cfg.Shop.ShippingFee)

	images := storage.NewImageStorage(ctx, &cfg.S3)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	jobs := scheduler.New(carts, catalogService, cfg.Scheduler.CartIdleTTL)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(catalogService)
	cartController := controller.NewCartController(carts, catalogService)
	orderController := controller.NewOrderController(orderService)
	adminController := controller.NewAdminController(catalogService)
	uploadController := controller.NewUploadController(images)
	wsController := controller.NewWSController(hub, sessions, carts, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revoker)

	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		adminController,
		uploadController,
		wsController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	jobs.Stop()
	// Pending cart mirrors must land before the store closes.
	carts.Flush()

	logger.Info("Server stopped successfully")
}
