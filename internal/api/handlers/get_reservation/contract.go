package get_reservation

import (
	"context"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса бронирований
type ReservationService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReservationResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
