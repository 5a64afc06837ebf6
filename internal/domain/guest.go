package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/pkg/i18n"
)

// Guest identity attached to reservations. Keyed by email: repeat bookings
// with the same email reuse the record, refreshing name and phone
// (last-write-wins, not versioned).
type Guest struct {
	ID       uuid.UUID
	FullName string
	Email    string
	Phone    *string
	Language i18n.Locale

	CreatedAt time.Time
	UpdatedAt time.Time
}
