package notifier

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий жизненного цикла бронирования
const (
	EventReservationRequested = "reservation.requested"
	EventReservationConfirmed = "reservation.confirmed"
	EventReviewRequested      = "reservation.review_requested"
)

// ReservationInfo данные бронирования, попадающие в событие.
// Содержит все, что нужно шаблонам писем на стороне потребителя.
type ReservationInfo struct {
	ID                uuid.UUID
	ReservationNumber string
	UnitName          string
	GuestName         string
	GuestEmail        string
	GuestPhone        *string
	CheckIn           time.Time
	CheckOut          time.Time
	TotalPrice        float64
	Language          string
	Note              *string
}

// reservationEvent формат сообщения в топике уведомлений
type reservationEvent struct {
	Type              string    `json:"type"`
	ReservationID     uuid.UUID `json:"reservation_id"`
	ReservationNumber string    `json:"reservation_number"`
	UnitName          string    `json:"unit_name"`
	GuestName         string    `json:"guest_name"`
	GuestEmail        string    `json:"guest_email"`
	GuestPhone        *string   `json:"guest_phone,omitempty"`
	CheckIn           string    `json:"check_in"`
	CheckOut          string    `json:"check_out"`
	TotalPrice        float64   `json:"total_price"`
	Language          string    `json:"language"`
	Note              *string   `json:"note,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
