package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"contact-relay-backend/config"
	"contact-relay-backend/internal/delivery/http/middleware"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/ratelimit"
	"contact-relay-backend/pkg/security"
)

// maxContactBody bounds a submission; a contact form never needs more
const maxContactBody = 64 << 10

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       usecase.HealthUsecase
	Limiter        ratelimit.Limiter // owned by the caller, shared by nothing else
	Logger         *slog.Logger
	SecurityLogger *security.SecurityLogger
	Config         *config.Config
	// Now must be the limiter's clock; defaults to time.Now
	Now func() time.Time
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	r := gin.New()

	// Without trusted proxies ClientIP is the socket peer address
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigin)) // CORS must be first!
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler(deps.Logger))

	r.NoRoute(middleware.NotFound())

	// Health Check
	NewHealthHandler(r, deps.HealthUC)

	// Public routes
	apiGroup := r.Group("/api")
	NewContactHandler(apiGroup, deps.ContactUC,
		middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Limiter:         deps.Limiter,
			StandardHeaders: deps.Config.RateLimitStandardHeaders,
			Logger:          deps.Logger,
			SecurityLogger:  deps.SecurityLogger,
			Now:             deps.Now,
		}),
		middleware.BodyLimit(maxContactBody),
	)

	// Swagger
	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
