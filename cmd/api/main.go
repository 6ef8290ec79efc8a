package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"truckzone-contact-api/config"
	_ "truckzone-contact-api/docs" // Important for Swagger
	v1 "truckzone-contact-api/internal/delivery/http/v1"
	"truckzone-contact-api/internal/usecase"
	"truckzone-contact-api/pkg/email"
	"truckzone-contact-api/pkg/logger"
	"truckzone-contact-api/pkg/redis"
	"truckzone-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Truck Zone Contact API
// @version         1.0
// @description     Contact form endpoint: validates submissions and relays them over SMTP.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting contact api", "port", cfg.Port)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 3. Setup Email Service
	signer, err := email.NewSigner(email.DKIMConfig{
		Selector:   cfg.DKIMSelector,
		KeyPath:    cfg.DKIMKeyPath,
		PrivateKey: cfg.DKIMPrivateKey,
		Domain:     cfg.DKIMDomain,
	})
	if err != nil {
		logger.Log.Error("Invalid DKIM configuration", "error", err)
		os.Exit(1)
	}

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Secure:     cfg.SMTPSecure,
		ServerName: cfg.SMTPTLSServerName,
		HeloName:   cfg.SMTPHeloName,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		Timeout:    time.Duration(cfg.SMTPTimeoutSecs) * time.Second,
	}, signer)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
	}

	logo, err := email.LoadLogo(cfg.LogoPath, cfg.LogoCID)
	if err != nil {
		logger.Log.Warn("Failed to load email logo, sending without it", "path", cfg.LogoPath, "error", err)
	} else if logo == nil {
		logger.Log.Warn("Email logo not found, sending without it", "path", cfg.LogoPath)
	}

	// 4. Setup Redis (optional, rate limiter falls back to memory)
	var redisClient *goredis.Client
	if cfg.UpstashRedisURL != "" {
		redisClient, err = redis.NewClient(context.Background(), redis.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup UseCases
	validate := validation.New()
	contactUC := usecase.NewContactUsecase(emailService, validate, usecase.ContactConfig{
		Brand: email.Branding{
			Name:    cfg.BrandName,
			URL:     cfg.BrandURL,
			Domain:  cfg.BrandDomain,
			LogoCID: cfg.LogoCID,
		},
		FromEmail:       cfg.FromEmail,
		InboxEmail:      cfg.ToEmail,
		Logo:            logo,
		VerifyTransport: cfg.SMTPVerify,
	})
	healthUC := usecase.NewHealthUsecase(emailService, redisClient)

	// 6. Setup Router
	router, err := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
		Validate:  validate,
		Redis:     redisClient,
	})
	if err != nil {
		logger.Log.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// In-flight submissions may still be talking to the relay
	shutdownTimeout := time.Duration(cfg.SMTPTimeoutSecs+5) * time.Second

	if err := serve(srv, quit, shutdownTimeout); err != nil {
		logger.Log.Error("Server stopped", "error", err)
		os.Exit(1)
	}

	logger.Log.Info("Server exiting")
}

// serve runs srv until it fails to listen or a signal arrives on quit, then
// shuts it down gracefully.
func serve(srv *http.Server, quit <-chan os.Signal, shutdownTimeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen failed: %w", err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
