package domain

// Pricing surcharges, EUR. Per-night surcharges multiply by stay length,
// check-in/check-out fees are flat.
const (
	ExtraBedPricePerNight = 10.0
	ParkingPricePerNight  = 5.0
	EarlyCheckInFee       = 20.0
	LateCheckOutFee       = 15.0
)

// Business validation constants
const (
	MaxStayNights = 30

	MinGuestNameLength = 2
	MaxGuestNameLength = 100
	MaxEmailLength     = 255
	MinPhoneLength     = 8
	MaxPhoneLength     = 20
	MinPhoneDigits     = 8
	MaxPhoneDigits     = 15
	MaxNoteLength      = 500
	MaxUserAgentLength = 500
)

// Pagination bounds for reservation listings
const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// DateFormat calendar date layout (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// SourceWebsite origin tag stamped on reservations created through the public API
const SourceWebsite = "website"

// CancelledStatuses statuses that release the reservation's date range
var CancelledStatuses = []ReservationStatus{StatusCancelled}
