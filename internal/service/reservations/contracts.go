package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	reservationRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/reservation"
	"github.com/apartmani-bj/booking-service/internal/integrations/notifier"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	GetDetailsByID(ctx context.Context, id uuid.UUID) (*reservationRepo.Details, error)
	ListWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*reservationRepo.Details, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus, stampedAt time.Time) error
	UpdateDates(ctx context.Context, id uuid.UUID, checkIn, checkOut time.Time, pricePerNight, totalPrice float64) error
	UpdateOptions(ctx context.Context, id uuid.UUID, opts domain.ReservationOptions, note *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GuestRepository интерфейс репозитория гостей
type GuestRepository interface {
	UpdatePartial(ctx context.Context, id uuid.UUID, patch domain.GuestPatch) error
}

// UnitRepository интерфейс репозитория апартаментов
type UnitRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error)
}

// NotificationClient интерфейс клиента уведомлений
type NotificationClient interface {
	NotifyReservationConfirmed(ctx context.Context, info notifier.ReservationInfo) error
	NotifyReviewRequested(ctx context.Context, info notifier.ReservationInfo) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
