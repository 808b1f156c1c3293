package handler

import (
	"ticket-box-office/internal/adapter/http/middleware"
	redisStore "ticket-box-office/internal/adapter/storage/redis"
	"ticket-box-office/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	TradeSvc       ports.TradeService
	TokenSvc       ports.TokenService
	Currency       string
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
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

	inventoryHandler := NewInventoryHandler(deps.TradeSvc)
	v1.GET("/inventory", rl("inventory"), inventoryHandler.GetInventory)

	// --- JWT-authenticated routes (buyer API) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	tradeHandler := NewTradeHandler(deps.TradeSvc)
	trades := v1.Group("/trades", jwtAuth)
	{
		trades.POST("", rl("trades"), tradeHandler.ExecuteTrade)
	}

	buyerHandler := NewBuyerHandler(deps.TradeSvc, deps.Currency)
	buyers := v1.Group("/buyers/me", jwtAuth)
	{
		buyers.GET("/purchases", rl("buyers"), buyerHandler.ListPurchases)
		buyers.GET("/balance", rl("buyers"), buyerHandler.GetBalance)
		buyers.POST("/balance/draw", rl("buyers"), buyerHandler.DrawBalance)
	}

	return r
}
