package list_reservations

import (
	"context"

	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса бронирований
type ReservationService interface {
	List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
