package v1

import (
	"fmt"
	"net/http"
	"time"

	"truckzone-contact-api/config"
	"truckzone-contact-api/internal/delivery/http/middleware"
	"truckzone-contact-api/internal/domain"
	"truckzone-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	Config    *config.Config
	Validate  *validator.Validate
	// Redis backs the contact rate limiter; nil selects the in-memory store
	Redis *goredis.Client
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	r := gin.New()

	// The rate limiter keys on ClientIP, so forwarded headers are only
	// honoured from configured proxies or the hosting platform
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	r.TrustedPlatform = deps.Config.TrustedPlatform

	validate := deps.Validate
	if validate == nil {
		validate = validation.New()
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins)) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.ErrorHandler())

	// One limiter shared by both mounts so the prefix cannot double the quota
	contactLimit := middleware.RateLimitMiddleware(
		middleware.ContactRateLimitConfig(
			deps.Config.RateLimitContactThreshold,
			time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
		),
		deps.Redis,
	)

	// The form posts to /contact; /v1 mirrors it for versioned clients
	for _, prefix := range []string{"", "/v1"} {
		api := r.Group(prefix)
		api.Use(middleware.SecurityHeadersMiddleware())

		NewHealthHandler(api, deps.HealthUC)
		NewContactHandler(api, deps.ContactUC, validate, middleware.MethodGate(http.MethodPost), contactLimit)
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}
