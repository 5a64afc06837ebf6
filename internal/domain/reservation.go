package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/pkg/i18n"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusNoShow     ReservationStatus = "no_show"
)

// statusTransitions is the single source of truth for the reservation state
// machine. A status missing from the map is terminal.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut, StatusNoShow},
}

// CanTransition reports whether the state machine allows from -> to
func CanTransition(from, to ReservationStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions
func (s ReservationStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IsValid reports whether the status is a known reservation status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// ReservationOptions per-stay add-ons selected by the guest
type ReservationOptions struct {
	ExtraBed     bool
	Parking      bool
	EarlyCheckIn bool
	LateCheckOut bool
}

// SecurityMetadata abuse-prevention data captured at the transport boundary
type SecurityMetadata struct {
	IPAddress        *string
	UserAgent        *string
	Fingerprint      *string
	ConsentGiven     bool
	ConsentTimestamp *time.Time
}

// Reservation represents a guest's claim on a unit for a date range
type Reservation struct {
	ID                uuid.UUID
	ReservationNumber string
	UnitID            uuid.UUID
	GuestID           uuid.UUID

	// Calendar dates, check-out exclusive
	CheckIn  time.Time
	CheckOut time.Time

	// Rate snapshot at booking time; TotalPrice is always recomputed
	PricePerNight float64
	TotalPrice    float64

	Status   ReservationStatus
	Options  ReservationOptions
	Note     *string
	Source   string
	Language i18n.Locale

	Security SecurityMetadata

	RequestedAt  time.Time
	ConfirmedAt  *time.Time
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	CancelledAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlocksDates reports whether the reservation occupies its date range.
// Only cancelled reservations release their dates.
func (r *Reservation) BlocksDates() bool {
	return r.Status != StatusCancelled
}

// CanBeCancelled reports whether the current status allows cancellation
func (r *Reservation) CanBeCancelled() bool {
	return CanTransition(r.Status, StatusCancelled)
}

// Nights returns the stay length computed from the stored dates
func (r *Reservation) Nights() int {
	return Nights(r.CheckIn, r.CheckOut)
}

// RangesOverlap reports whether two half-open date ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. A check-out on another reservation's check-in day
// does not conflict. Mirrors the overlap predicate evaluated by the store.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ReservationFilter filter for listing reservations
type ReservationFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	UnitID     *uuid.UUID
	Status     *ReservationStatus
	GuestID    *uuid.UUID
	GuestEmail *string
	Page       int
	Limit      int
}

// Offset returns the row offset for the requested page
func (f ReservationFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// GuestPatch partial guest-info update; email is immutable post-creation
type GuestPatch struct {
	Name  *string
	Phone *string
}

// OptionsPatch partial options update; only set fields are applied
type OptionsPatch struct {
	ExtraBed     *bool
	Parking      *bool
	EarlyCheckIn *bool
	LateCheckOut *bool
	Note         *string
}

// Apply merges the patch into existing options
func (p OptionsPatch) Apply(opts ReservationOptions) ReservationOptions {
	if p.ExtraBed != nil {
		opts.ExtraBed = *p.ExtraBed
	}
	if p.Parking != nil {
		opts.Parking = *p.Parking
	}
	if p.EarlyCheckIn != nil {
		opts.EarlyCheckIn = *p.EarlyCheckIn
	}
	if p.LateCheckOut != nil {
		opts.LateCheckOut = *p.LateCheckOut
	}
	return opts
}

// ReservationUpdate subset of mutable reservation fields; nil means unchanged
type ReservationUpdate struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   *ReservationStatus
	Guest    *GuestPatch
	Options  *OptionsPatch
}

// HasDateChange reports whether the update touches the date range
func (u ReservationUpdate) HasDateChange() bool {
	return u.CheckIn != nil || u.CheckOut != nil
}

// IsEmpty reports whether the update contains no fields
func (u ReservationUpdate) IsEmpty() bool {
	return u.CheckIn == nil && u.CheckOut == nil && u.Status == nil && u.Guest == nil && u.Options == nil
}
