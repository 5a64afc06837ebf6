package ratelimit

import (
	"context"
	"time"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// CounterStore интерфейс хранилища счетчиков попыток и блокировок
type CounterStore interface {
	Increment(ctx context.Context, kind domain.IdentifierKind, identifier string, window time.Duration) (int64, error)
	SetBlock(ctx context.Context, kind domain.IdentifierKind, identifier string, until time.Time) error
	BlockedUntil(ctx context.Context, kind domain.IdentifierKind, identifier string) (*time.Time, error)
	Clear(ctx context.Context, kind domain.IdentifierKind, identifier string) error
	Status(ctx context.Context, kind domain.IdentifierKind, identifier string) (*domain.RateLimitStatus, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
