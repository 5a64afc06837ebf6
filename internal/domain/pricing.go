package domain

import "time"

// Nights returns the whole-day count between two calendar dates.
// Date-only arithmetic, no time-of-day component; the result is the absolute
// difference, so argument order does not matter. A same-day range yields 0.
func Nights(checkIn, checkOut time.Time) int {
	a := truncateToDate(checkIn)
	b := truncateToDate(checkOut)

	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// TotalPrice computes the deterministic total for a stay:
// nights x nightly rate, plus per-night surcharges for extra bed and parking,
// plus flat early check-in and late check-out fees. Pure, no I/O, no rounding;
// currency formatting is the caller's concern.
func TotalPrice(pricePerNight float64, checkIn, checkOut time.Time, opts ReservationOptions) float64 {
	nights := Nights(checkIn, checkOut)
	total := float64(nights) * pricePerNight

	if opts.ExtraBed {
		total += float64(nights) * ExtraBedPricePerNight
	}
	if opts.Parking {
		total += float64(nights) * ParkingPricePerNight
	}
	if opts.EarlyCheckIn {
		total += EarlyCheckInFee
	}
	if opts.LateCheckOut {
		total += LateCheckOutFee
	}

	return total
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
