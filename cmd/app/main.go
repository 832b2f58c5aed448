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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"tradedesk/configs"
	"tradedesk/internal/adapter"
	"tradedesk/internal/database"
	delivery "tradedesk/internal/delivery/http"
	"tradedesk/internal/infra"
	custommiddleware "tradedesk/internal/middleware"
	"tradedesk/internal/repository"
	"tradedesk/internal/service"
	"tradedesk/internal/session"
	"tradedesk/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize session store
	redisClient, err := infra.NewRedis(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	sessions := session.NewRedisStore(redisClient)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, activityRepo, sessions, cfg.Trading.StartingCredit)
	tradingService := usecase.NewTradingService(tradeRepo)
	reconcileService := service.NewReconcileService(tradeRepo, time.Minute)
	quoteService := adapter.NewAlpacaBridge(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.APISecret)

	// Trade-history reconciler: every 5 minutes
	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := reconcileService.ReconcileHistory(ctx); err != nil {
			log.Printf("ERROR: Trade history reconciliation failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to add reconciler cron job: %v", err)
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Validator = delivery.NewRequestValidator()

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:  delivery.NewAuthHandler(authService, cfg.Auth.CookieSecure),
		UserHandler:  delivery.NewUserHandler(userRepo, activityRepo),
		TradeHandler: delivery.NewTradeHandler(tradingService),
		AdminHandler: delivery.NewAdminHandler(userRepo, authService),
		StockHandler: delivery.NewStockHandler(quoteService),
		Sessions:     sessions,
		Principals:   custommiddleware.NewPrincipalVerifier(cfg.Auth.ProviderSecret),
		LoginLimiter: custommiddleware.RateLimit(redisClient, cfg.Auth.LoginRatePerMinute),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("TradeDesk starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Starting credit: $%.2f", cfg.Trading.StartingCredit)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
