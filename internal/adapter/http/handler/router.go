package handler

import (
	"vendor-payout-gateway/internal/adapter/http/middleware"
	"vendor-payout-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PayoutSvc      ports.PayoutService
	WalletSvc      ports.WalletService
	TopupSvc       ports.TopupService
	BeneficiarySvc ports.BeneficiaryService
	AdminSvc       ports.AdminService
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	payoutHandler := NewPayoutHandler(deps.PayoutSvc, deps.Logger)

	// Gateway status callback. No auth: the gateway proves itself by
	// producing a payload that decrypts under the shared secret.
	v1.POST("/webhook/payout", payoutHandler.Webhook)

	// --- JWT-authenticated routes (vendor) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	payouts := v1.Group("/payouts", jwtAuth)
	{
		payouts.POST("", rl("payouts"), payoutHandler.Submit)
		payouts.GET("", rl("dashboard"), payoutHandler.List)
		payouts.GET("/:reference_id", rl("dashboard"), payoutHandler.Get)
		payouts.POST("/:reference_id/status", rl("status_check"), payoutHandler.CheckStatus)
		payouts.GET("/:reference_id/logs", rl("dashboard"), payoutHandler.Logs)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("/balance", rl("dashboard"), walletHandler.Balance)
		wallet.GET("/ledger", rl("dashboard"), walletHandler.Ledger)
	}

	topupHandler := NewTopupHandler(deps.TopupSvc)
	topups := v1.Group("/topups", jwtAuth)
	{
		topups.POST("", rl("topups"), topupHandler.Request)
		topups.GET("", rl("dashboard"), topupHandler.List(false))
	}

	benHandler := NewBeneficiaryHandler(deps.BeneficiarySvc)
	beneficiaries := v1.Group("/beneficiaries", jwtAuth)
	{
		beneficiaries.POST("", rl("dashboard"), benHandler.Create)
		beneficiaries.GET("", rl("dashboard"), benHandler.List)
		beneficiaries.GET("/:id", rl("dashboard"), benHandler.Get)
		beneficiaries.PUT("/:id", rl("dashboard"), benHandler.Update)
		beneficiaries.DELETE("/:id", rl("dashboard"), benHandler.Delete)
	}

	// --- Admin routes (JWT + admin role) ---
	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireAdmin())
	{
		admin.GET("/vendors", rl("dashboard"), adminHandler.ListVendors)
		admin.PATCH("/vendors/:id/status", rl("dashboard"), adminHandler.UpdateVendorStatus)

		admin.GET("/payouts", rl("dashboard"), payoutHandler.ListAll)
		admin.GET("/payouts/stats", rl("dashboard"), adminHandler.PayoutStats)

		admin.GET("/topups", rl("dashboard"), topupHandler.List(true))
		admin.GET("/topups/stats", rl("dashboard"), topupHandler.Stats)
		admin.POST("/topups/:id/approve", rl("dashboard"), topupHandler.Approve)
		admin.POST("/topups/:id/reject", rl("dashboard"), topupHandler.Reject)

		admin.GET("/gateway/balance", rl("dashboard"), payoutHandler.GatewayBalance)
		admin.GET("/gateway/balance/history", rl("dashboard"), adminHandler.BalanceHistory)
	}

	return r
}
