package routes

import (
	"campus-lost-found/internal/config"
	"campus-lost-found/internal/delivery/http/handler"
	"campus-lost-found/internal/logger"
	"campus-lost-found/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer is built on
type Dependencies struct {
	DB          handler.Pinger
	Tokens      middleware.TokenValidator
	Users       handler.UserService
	Reports     handler.ReportService
	RateLimiter *middleware.RateLimiter
	// Stats may be nil
	Stats func() interface{}
}

func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order: recovery, request ID, logging, security headers, CORS, request size limit, rate limit
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/healthz", "/readyz"))
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))

	handler.NewHealthHandler(deps.DB, deps.Stats).RegisterRoutes(router)

	userHandler := handler.NewUserHandler(deps.Users, handler.CookieOptions{
		Secure:        cfg.Cookie.Secure,
		Domain:        cfg.Cookie.Domain,
		AccessMaxAge:  cfg.JWT.AccessExpiry,
		RefreshMaxAge: cfg.JWT.RefreshExpiry,
	})
	reportHandler := handler.NewReportHandler(deps.Reports, cfg.Media.MaxImageBytes)

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(middleware.RateLimitMiddleware(deps.RateLimiter))
	}
	{
		userHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Tokens))
		{
			userHandler.RegisterProtectedRoutes(protected)
			reportHandler.RegisterRoutes(protected)
		}
	}

	logger.Info("All routes initialized")
	return router
}
