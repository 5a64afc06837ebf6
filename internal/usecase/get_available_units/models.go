package get_available_units

import "github.com/google/uuid"

// Request параметры поиска доступных апартаментов
type Request struct {
	CheckIn  string `json:"checkIn"`  // "2025-07-14"
	CheckOut string `json:"checkOut"` // "2025-07-18"
	Language string `json:"language,omitempty"`
}

// UnitResponse доступный апартамент с расчетом базовой стоимости проживания
type UnitResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"` // Локализовано на запрошенный язык
	Type          string    `json:"type"`
	Capacity      int       `json:"capacity"`
	PricePerNight float64   `json:"pricePerNight"`
	Nights        int       `json:"nights"`
	TotalPrice    float64   `json:"totalPrice"` // Без опций, ночи x тариф
}

// Response список доступных апартаментов на запрошенные даты
type Response struct {
	CheckIn  string         `json:"checkIn"`
	CheckOut string         `json:"checkOut"`
	Units    []UnitResponse `json:"units"`
}
