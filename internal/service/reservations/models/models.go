package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	reservationRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/reservation"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidUnitID возвращается при некорректном идентификаторе апартамента
	ErrInvalidUnitID = errors.New("invalid unit id")

	// ErrInvalidGuestID возвращается при некорректном идентификаторе гостя
	ErrInvalidGuestID = errors.New("invalid guest id")
)

// Request модели

// ListReservationsRequest запрос на получение списка бронирований
type ListReservationsRequest struct {
	StartDate  *string `json:"startDate,omitempty"`  // Начало периода, YYYY-MM-DD (опционально)
	EndDate    *string `json:"endDate,omitempty"`    // Конец периода, YYYY-MM-DD (опционально)
	UnitID     *string `json:"unitId,omitempty"`     // Фильтр по апартаменту (опционально)
	Status     *string `json:"status,omitempty"`     // Фильтр по статусу (опционально)
	GuestID    *string `json:"guestId,omitempty"`    // Фильтр по гостю (опционально)
	GuestEmail *string `json:"guestEmail,omitempty"` // Фильтр по email гостя (опционально)
	Page       int     `json:"page,omitempty"`
	Limit      int     `json:"limit,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр.
// Страница и размер страницы нормализуются к допустимым границам.
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		GuestEmail: r.GuestEmail,
		Page:       r.Page,
		Limit:      r.Limit,
	}

	if r.StartDate != nil {
		t, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.StartDate = &t
	}
	if r.EndDate != nil {
		t, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.EndDate = &t
	}
	if r.UnitID != nil {
		id, err := uuid.Parse(*r.UnitID)
		if err != nil {
			return filter, ErrInvalidUnitID
		}
		filter.UnitID = &id
	}
	if r.GuestID != nil {
		id, err := uuid.Parse(*r.GuestID)
		if err != nil {
			return filter, ErrInvalidGuestID
		}
		filter.GuestID = &id
	}
	if r.Status != nil {
		status := domain.ReservationStatus(*r.Status)
		if !status.IsValid() {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < domain.MinPageSize || filter.Limit > domain.MaxPageSize {
		if filter.Limit == 0 {
			filter.Limit = domain.DefaultPageSize
		} else if filter.Limit < domain.MinPageSize {
			filter.Limit = domain.MinPageSize
		} else {
			filter.Limit = domain.MaxPageSize
		}
	}

	return filter, nil
}

// GuestPatchRequest частичное обновление данных гостя
type GuestPatchRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// OptionsPatchRequest частичное обновление опций бронирования
type OptionsPatchRequest struct {
	ExtraBed     *bool   `json:"extraBed,omitempty"`
	Parking      *bool   `json:"parking,omitempty"`
	EarlyCheckIn *bool   `json:"earlyCheckIn,omitempty"`
	LateCheckOut *bool   `json:"lateCheckOut,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// UpdateReservationRequest запрос на обновление бронирования.
// Все поля опциональны, присутствующие применяются атомарно.
type UpdateReservationRequest struct {
	CheckIn  *string             `json:"checkIn,omitempty"`  // YYYY-MM-DD
	CheckOut *string             `json:"checkOut,omitempty"` // YYYY-MM-DD
	Status   *string             `json:"status,omitempty"`
	Guest    *GuestPatchRequest  `json:"guest,omitempty"`
	Options  *OptionsPatchRequest `json:"options,omitempty"`
}

// ToDomainUpdate конвертирует request в domain модель обновления
func (r *UpdateReservationRequest) ToDomainUpdate() (domain.ReservationUpdate, error) {
	var upd domain.ReservationUpdate

	if r.CheckIn != nil {
		t, err := time.Parse(domain.DateFormat, *r.CheckIn)
		if err != nil {
			return upd, ErrInvalidDate
		}
		upd.CheckIn = &t
	}
	if r.CheckOut != nil {
		t, err := time.Parse(domain.DateFormat, *r.CheckOut)
		if err != nil {
			return upd, ErrInvalidDate
		}
		upd.CheckOut = &t
	}
	if r.Status != nil {
		status := domain.ReservationStatus(*r.Status)
		if !status.IsValid() {
			return upd, ErrInvalidStatus
		}
		upd.Status = &status
	}
	if r.Guest != nil {
		upd.Guest = &domain.GuestPatch{
			Name:  r.Guest.Name,
			Phone: r.Guest.Phone,
		}
	}
	if r.Options != nil {
		upd.Options = &domain.OptionsPatch{
			ExtraBed:     r.Options.ExtraBed,
			Parking:      r.Options.Parking,
			EarlyCheckIn: r.Options.EarlyCheckIn,
			LateCheckOut: r.Options.LateCheckOut,
			Note:         r.Options.Note,
		}
	}

	return upd, nil
}

// Response модели

// OptionsResponse опции бронирования
type OptionsResponse struct {
	ExtraBed     bool `json:"extraBed"`
	Parking      bool `json:"parking"`
	EarlyCheckIn bool `json:"earlyCheckIn"`
	LateCheckOut bool `json:"lateCheckOut"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                uuid.UUID `json:"id"`
	ReservationNumber string    `json:"reservationNumber"`
	UnitID            uuid.UUID `json:"unitId"`
	UnitName          string    `json:"unitName"` // Локализовано на язык бронирования

	GuestName  string  `json:"guestName"`
	GuestEmail string  `json:"guestEmail"`
	GuestPhone *string `json:"guestPhone,omitempty"`

	CheckIn       string  `json:"checkIn"`  // "2025-07-14"
	CheckOut      string  `json:"checkOut"` // "2025-07-18"
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"pricePerNight"`
	TotalPrice    float64 `json:"totalPrice"`

	Status   string          `json:"status"`
	Options  OptionsResponse `json:"options"`
	Note     *string         `json:"note,omitempty"`
	Source   string          `json:"source"`
	Language string          `json:"language"`

	RequestedAt  time.Time  `json:"requestedAt"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaginationResponse параметры страницы в ответе списка
type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Pagination   PaginationResponse    `json:"pagination"`
}

// Методы конвертации

// FromDetails конвертирует строку репозитория в DTO
func FromDetails(d *reservationRepo.Details) *ReservationResponse {
	if d == nil {
		return nil
	}

	return &ReservationResponse{
		ID:                d.ID,
		ReservationNumber: d.ReservationNumber,
		UnitID:            d.UnitID,
		UnitName:          d.UnitName.Get(d.Language),
		GuestName:         d.GuestName,
		GuestEmail:        d.GuestEmail,
		GuestPhone:        d.GuestPhone,
		CheckIn:           d.CheckIn.Format(domain.DateFormat),
		CheckOut:          d.CheckOut.Format(domain.DateFormat),
		Nights:            d.Nights(),
		PricePerNight:     d.PricePerNight,
		TotalPrice:        d.TotalPrice,
		Status:            string(d.Status),
		Options: OptionsResponse{
			ExtraBed:     d.Options.ExtraBed,
			Parking:      d.Options.Parking,
			EarlyCheckIn: d.Options.EarlyCheckIn,
			LateCheckOut: d.Options.LateCheckOut,
		},
		Note:         d.Note,
		Source:       d.Source,
		Language:     string(d.Language),
		RequestedAt:  d.RequestedAt,
		ConfirmedAt:  d.ConfirmedAt,
		CheckedInAt:  d.CheckedInAt,
		CheckedOutAt: d.CheckedOutAt,
		CancelledAt:  d.CancelledAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// FromDetailsList конвертирует страницу строк репозитория в DTO списка
func FromDetailsList(items []*reservationRepo.Details, filter domain.ReservationFilter, total int) *ReservationListResponse {
	reservations := make([]ReservationResponse, 0, len(items))
	for _, d := range items {
		reservations = append(reservations, *FromDetails(d))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}

	return &ReservationListResponse{
		Reservations: reservations,
		Pagination: PaginationResponse{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
