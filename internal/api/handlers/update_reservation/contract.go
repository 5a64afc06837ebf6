package update_reservation

import (
	"context"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса бронирований
type ReservationService interface {
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateReservationRequest) (*models.ReservationResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
