package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket-box-office/config"
	httpHandler "ticket-box-office/internal/adapter/http/handler"
	pgStorage "ticket-box-office/internal/adapter/storage/postgres"
	redisStorage "ticket-box-office/internal/adapter/storage/redis"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/internal/service"
	"ticket-box-office/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Ticket Box Office")

	// The price table is fixed at startup. A malformed table is a refusal
	// to start, not a degraded run.
	inventory, err := cfg.BoxOffice.Inventory()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid box office inventory configuration")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	buyerRepo := pgStorage.NewBuyerRepo(pool)
	allocRepo := pgStorage.NewAllocationRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	proceedsRepo := pgStorage.NewProceedsRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Mint: seed the allocation from the price table and create the
	// proceeds holder. Both are idempotent across restarts.
	if err := allocRepo.Seed(ctx, inventory.InitialAllocation()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed ticket allocation")
	}
	if err := proceedsRepo.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize proceeds holder")
	}
	log.Info().
		Str("currency", inventory.Currency()).
		Strs("classes", inventory.Classes()).
		Msg("Ticket inventory ready")

	// Initialize Redis stores
	tradeCache := redisStorage.NewTradeCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(buyerRepo, hashSvc, tokenSvc)
	tradeSvc := service.NewTradeService(
		inventory,
		allocRepo,
		ledgerRepo,
		proceedsRepo,
		tradeCache,
		transactor,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		TradeSvc:       tradeSvc,
		TokenSvc:       tokenSvc,
		Currency:       inventory.Currency(),
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
