package get_available_units

import (
	"context"
	"time"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// UnitRepository интерфейс репозитория апартаментов
type UnitRepository interface {
	ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]*domain.Unit, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
