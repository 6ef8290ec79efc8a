package usecase_test

import (
	"context"
	"testing"

	"truckzone-contact-api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		smtp       string
	}{
		{"smtp configured", true, "configured"},
		{"smtp missing", false, "not_configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			transport.On("IsConfigured").Return(tt.configured)

			status := usecase.NewHealthUsecase(transport, nil).Check(context.Background())

			assert.Equal(t, "ok", status.Status)
			assert.Equal(t, tt.smtp, status.SMTP)
			assert.Equal(t, "memory", status.RateLimitStore)
			transport.AssertNotCalled(t, "Open", mock.Anything)
		})
	}
}
