package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prodlens/backend/config"
	"github.com/prodlens/backend/internal/domain"
	"github.com/prodlens/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(
	cfg *config.Config,
	handler *Handler,
	authHandler *AuthHandler,
	tokens domain.TokenManager,
	log *zap.Logger,
) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(metrics.Middleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAuth := RequireAuth(tokens, cfg.Auth.CookieName)
	optionalAuth := OptionalAuth(tokens, cfg.Auth.CookieName)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		products := api.Group("/products")
		{
			products.GET("/ping", handler.Ping)
			products.GET("/mock", handler.Mock)
			products.POST("/summarize", optionalAuth, handler.Summarize)
			products.POST("/compare", optionalAuth, handler.Compare)
			products.POST("/suggest", optionalAuth, handler.Suggest)
			products.GET("/history/summaries", requireAuth, handler.SummaryHistory)
			products.GET("/history/comparisons", requireAuth, handler.ComparisonHistory)
		}
	}

	return router
}
