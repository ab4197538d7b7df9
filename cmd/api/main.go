package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"contact-relay-backend/config"
	_ "contact-relay-backend/docs" // Important for Swagger
	"contact-relay-backend/internal/delivery/http/api"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/logger"
	"contact-relay-backend/pkg/ratelimit"
	"contact-relay-backend/pkg/redis"
	"contact-relay-backend/pkg/security"
	"contact-relay-backend/pkg/validation"
)

// @title           Contact Relay API
// @version         1.0
// @description     Relays portfolio contact form submissions to the site owner over SMTP.
// @host            localhost:3000
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	appLog := logger.Init(cfg.IsProduction())
	appLog.Info("Starting contact relay", "port", cfg.Port)

	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}
	secLog := security.NewSecurityLogger(cfg.ServiceName, environment)
	defer func() { _ = secLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Rate Limiter (owned here, injected into the router)
	memoryLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow())
	go memoryLimiter.Run(ctx, cfg.RateLimitWindow())

	var limiter ratelimit.Limiter = memoryLimiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.New(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			appLog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer redisClient.Close()
			shared := ratelimit.NewRedisLimiter(redisClient, "rl:contact:", cfg.RateLimitMax, cfg.RateLimitWindow())
			limiter = ratelimit.NewFallbackLimiter(shared, memoryLimiter, func(err error) {
				secLog.LogRateLimitStoreDown(context.Background(), err)
			})
			appLog.Info("Rate limiting backed by Redis")
		}
	}

	// 4. Setup Email Service
	emailService := email.NewEmailService(email.SMTPConfig{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Secure:       cfg.SMTPSecure,
		Username:     cfg.SMTPUsername,
		Password:     cfg.SMTPPassword,
		Timeout:      cfg.SMTPTimeout(),
		MaxPerSecond: cfg.SMTPMaxSendsPerSec,
		Burst:        cfg.SMTPBurst,
	})
	if !emailService.IsConfigured() {
		appLog.Warn("Email service not fully configured - contact form will fail to send")
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(
		emailService,
		validation.New(),
		email.Identity{SMTPUser: cfg.SMTPUsername, To: cfg.ContactEmailTo},
		appLog,
		secLog,
	)
	healthUC := usecase.NewHealthUsecase()

	// 6. Setup Router
	router, err := api.NewRouter(api.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		Limiter:        limiter,
		Logger:         appLog,
		SecurityLogger: secLog,
		Config:         cfg,
	})
	if err != nil {
		appLog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Leaves room for a full SMTP exchange
		WriteTimeout: cfg.SMTPTimeout() + 10*time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Listen failed", "error", err)
			stop()
		}
	}()
	appLog.Info("Server running", "port", cfg.Port)

	// Graceful Shutdown
	<-ctx.Done()
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exiting")
}
