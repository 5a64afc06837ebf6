package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/pkg/i18n"
)

// Unit a bookable apartment. Owns the nightly base rate and capacity.
// Read-only from the lifecycle core's perspective: pricing and availability
// consult it but never mutate it.
type Unit struct {
	ID           uuid.UUID
	Name         i18n.MultiLanguageText
	Type         string
	Capacity     int
	BasePriceEUR float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
