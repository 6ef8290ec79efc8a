package usecase

import (
	"context"
	"time"

	"truckzone-contact-api/internal/domain"
	"truckzone-contact-api/pkg/email"
	"truckzone-contact-api/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

type healthUsecase struct {
	transport   email.Transport
	redisClient *goredis.Client
}

// NewHealthUsecase reports configuration state only. It never opens a mail
// session, so probing it does not touch the relay.
func NewHealthUsecase(transport email.Transport, redisClient *goredis.Client) domain.HealthUsecase {
	return &healthUsecase{
		transport:   transport,
		redisClient: redisClient,
	}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Status:         "ok",
		SMTP:           "configured",
		RateLimitStore: "memory",
	}

	if !u.transport.IsConfigured() {
		status.SMTP = "not_configured"
	}

	if u.redisClient != nil {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()

		if err := redis.HealthCheck(ctx, u.redisClient); err != nil {
			status.RateLimitStore = "redis_unreachable"
		} else {
			status.RateLimitStore = "redis"
		}
	}

	return status
}
