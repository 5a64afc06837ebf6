package create_reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

// OptionsRequest дополнительные опции проживания
type OptionsRequest struct {
	ExtraBed     bool `json:"extraBed"`
	Parking      bool `json:"parking"`
	EarlyCheckIn bool `json:"earlyCheckIn"`
	LateCheckOut bool `json:"lateCheckOut"`
}

// Request входные данные для создания бронирования
type Request struct {
	UnitID string `json:"unitId"`

	GuestName  string  `json:"guestName"`
	GuestEmail string  `json:"guestEmail"`
	GuestPhone *string `json:"guestPhone,omitempty"`

	CheckIn  string `json:"checkIn"`  // "2025-07-14"
	CheckOut string `json:"checkOut"` // "2025-07-18"

	Options  OptionsRequest `json:"options"`
	Note     *string        `json:"note,omitempty"`
	Language string         `json:"language,omitempty"`

	ConsentGiven bool `json:"consentGiven"`

	// Заполняется на транспортном слое, не клиентом
	IPAddress   *string `json:"-"`
	UserAgent   *string `json:"-"`
	Fingerprint *string `json:"-"`
}

// validatedRequest нормализованные данные после валидации
type validatedRequest struct {
	unitID     uuid.UUID
	guestName  string
	guestEmail string
	guestPhone *string
	checkIn    time.Time
	checkOut   time.Time
	options    domain.ReservationOptions
	note       *string
}

// Response созданное бронирование
type Response struct {
	ID                uuid.UUID `json:"id"`
	ReservationNumber string    `json:"reservationNumber"`
	UnitID            uuid.UUID `json:"unitId"`
	UnitName          string    `json:"unitName"`

	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`

	CheckIn       string  `json:"checkIn"`
	CheckOut      string  `json:"checkOut"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"pricePerNight"`
	TotalPrice    float64 `json:"totalPrice"`

	Status   string         `json:"status"`
	Options  OptionsRequest `json:"options"`
	Note     *string        `json:"note,omitempty"`
	Language string         `json:"language"`

	RequestedAt time.Time `json:"requestedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
