package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"four nights", date(2025, 7, 14), date(2025, 7, 18), 4},
		{"one night", date(2025, 7, 14), date(2025, 7, 15), 1},
		{"same day", date(2025, 7, 14), date(2025, 7, 14), 0},
		{"reversed arguments", date(2025, 7, 18), date(2025, 7, 14), 4},
		{"across month boundary", date(2025, 7, 30), date(2025, 8, 2), 3},
		{"across year boundary", date(2025, 12, 30), date(2026, 1, 2), 3},
		{"time of day ignored", time.Date(2025, 7, 14, 23, 59, 0, 0, time.UTC), time.Date(2025, 7, 18, 0, 1, 0, 0, time.UTC), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestTotalPrice(t *testing.T) {
	checkIn := date(2025, 7, 14)
	checkOut := date(2025, 7, 18) // 4 ночи

	tests := []struct {
		name string
		rate float64
		opts ReservationOptions
		want float64
	}{
		{"base only", 150, ReservationOptions{}, 600},
		{"extra bed", 150, ReservationOptions{ExtraBed: true}, 640},
		{"parking", 150, ReservationOptions{Parking: true}, 620},
		{"early check-in flat fee", 150, ReservationOptions{EarlyCheckIn: true}, 620},
		{"late check-out flat fee", 150, ReservationOptions{LateCheckOut: true}, 615},
		{
			"all options",
			150,
			ReservationOptions{ExtraBed: true, Parking: true, EarlyCheckIn: true, LateCheckOut: true},
			695,
		},
		{"zero rate still charges options", 0, ReservationOptions{ExtraBed: true, EarlyCheckIn: true}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPrice(tt.rate, checkIn, checkOut, tt.opts))
		})
	}
}

func TestTotalPriceDeterministic(t *testing.T) {
	opts := ReservationOptions{ExtraBed: true, Parking: true}
	first := TotalPrice(120, date(2025, 8, 1), date(2025, 8, 11), opts)

	for i := 0; i < 100; i++ {
		assert.Equal(t, first, TotalPrice(120, date(2025, 8, 1), date(2025, 8, 11), opts))
	}
}
