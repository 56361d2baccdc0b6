package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendor-payout-gateway/config"
	"vendor-payout-gateway/internal/adapter/gateway/payninja"
	httpHandler "vendor-payout-gateway/internal/adapter/http/handler"
	pgStorage "vendor-payout-gateway/internal/adapter/storage/postgres"
	redisStorage "vendor-payout-gateway/internal/adapter/storage/redis"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/internal/service"
	"vendor-payout-gateway/pkg/logger"
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
		Msg("Starting Vendor Payout Gateway")

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
	userRepo := pgStorage.NewUserRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	payoutRepo := pgStorage.NewPayoutRepo(pool)
	logRepo := pgStorage.NewTransactionLogRepo(pool)
	topupRepo := pgStorage.NewTopupRepo(pool)
	benRepo := pgStorage.NewBeneficiaryRepo(pool)
	balanceRepo := pgStorage.NewBalanceHistoryRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	balanceCache := redisStorage.NewBalanceCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	cryptoSvc := service.NewAESCryptoService(cfg.Gateway.SecretKey)
	if err := cryptoSvc.SelfTest(); err != nil {
		log.Fatal().Err(err).Msg("Gateway crypto self-test failed, check VPG_GATEWAY_SECRET_KEY")
	}
	signerSvc := service.NewSHA256SignatureService(cfg.Gateway.SecretKey)
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize gateway client
	gatewayClient := payninja.NewClient(cfg.Gateway, cryptoSvc, log)

	// Initialize business services
	walletLedger := service.NewWalletLedger(walletRepo, ledgerRepo, log)
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, log)
	payoutSvc := service.NewPayoutService(
		payoutRepo,
		logRepo,
		userRepo,
		benRepo,
		balanceRepo,
		walletLedger,
		gatewayClient,
		signerSvc,
		cryptoSvc,
		transactor,
		balanceCache,
		cfg.Gateway.BalanceCacheTTL,
		cfg.Gateway.APICode,
		cfg.Gateway.DefaultNarration,
		log,
	)
	topupSvc := service.NewTopupService(topupRepo, userRepo, walletLedger, transactor, log)
	walletSvc := service.NewWalletService(walletRepo, ledgerRepo, log)
	benSvc := service.NewBeneficiaryService(benRepo, log)
	adminSvc := service.NewAdminService(userRepo, payoutRepo, balanceRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		PayoutSvc:      payoutSvc,
		WalletSvc:      walletSvc,
		TopupSvc:       topupSvc,
		BeneficiarySvc: benSvc,
		AdminSvc:       adminSvc,
		TokenSvc:       tokenSvc,
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
