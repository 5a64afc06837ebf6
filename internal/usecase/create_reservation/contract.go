package create_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	"github.com/apartmani-bj/booking-service/internal/integrations/notifier"
	"github.com/apartmani-bj/booking-service/pkg/i18n"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	CheckAvailability(ctx context.Context, unitID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error)
}

// GuestRepository интерфейс репозитория гостей
type GuestRepository interface {
	UpsertByEmail(ctx context.Context, fullName, email string, phone *string, language i18n.Locale) (*domain.Guest, error)
}

// UnitRepository интерфейс репозитория апартаментов
type UnitRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error)
}

// RateLimiter интерфейс защиты от перебора при публичном создании бронирований
type RateLimiter interface {
	Check(ctx context.Context, ip, email, fingerprint string) *domain.RateLimitDecision
	RecordSuccess(ctx context.Context, ip, email, fingerprint string)
}

// NotificationClient интерфейс клиента уведомлений
type NotificationClient interface {
	NotifyReservationRequested(ctx context.Context, info notifier.ReservationInfo) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
