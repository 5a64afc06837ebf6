package get_ratelimit_status

import (
	"context"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// RateLimitService интерфейс сервиса rate limiting
type RateLimitService interface {
	Status(ctx context.Context, kind string, identifier string) (*domain.RateLimitStatus, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
