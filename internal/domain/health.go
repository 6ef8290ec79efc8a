package domain

import "context"

// HealthStatus reports which collaborators the service can reach.
type HealthStatus struct {
	Status         string `json:"status"`
	SMTP           string `json:"smtp"`
	RateLimitStore string `json:"rateLimitStore"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}
