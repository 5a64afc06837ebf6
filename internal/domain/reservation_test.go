package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to ReservationStatus }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCheckedIn},
		{StatusConfirmed, StatusCancelled},
		{StatusCheckedIn, StatusCheckedOut},
		{StatusCheckedIn, StatusNoShow},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s must be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to ReservationStatus }{
		{StatusPending, StatusCheckedIn},
		{StatusPending, StatusCheckedOut},
		{StatusConfirmed, StatusPending},
		{StatusConfirmed, StatusNoShow},
		{StatusCheckedIn, StatusCancelled},
		{StatusCheckedOut, StatusCheckedIn},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusCheckedIn},
		{StatusCheckedOut, StatusCheckedOut},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s must be denied", tr.from, tr.to)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusCheckedIn.IsTerminal())
	assert.True(t, StatusCheckedOut.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []ReservationStatus{
		StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow,
	} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, ReservationStatus("unknown").IsValid())
	assert.False(t, ReservationStatus("").IsValid())
}

func TestBlocksDates(t *testing.T) {
	for _, s := range []ReservationStatus{
		StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusNoShow,
	} {
		r := Reservation{Status: s}
		assert.True(t, r.BlocksDates(), "status %s must block dates", s)
	}

	cancelled := Reservation{Status: StatusCancelled}
	assert.False(t, cancelled.BlocksDates())
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"identical ranges", "2025-07-14", "2025-07-18", "2025-07-14", "2025-07-18", true},
		{"partial overlap", "2025-07-14", "2025-07-18", "2025-07-16", "2025-07-20", true},
		{"contained range", "2025-07-14", "2025-07-18", "2025-07-15", "2025-07-16", true},
		{"touching boundaries do not conflict", "2025-07-14", "2025-07-18", "2025-07-18", "2025-07-20", false},
		{"touching boundaries reversed", "2025-07-18", "2025-07-20", "2025-07-14", "2025-07-18", false},
		{"disjoint ranges", "2025-07-14", "2025-07-16", "2025-07-20", "2025-07-22", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(mustDate(t, tt.aStart), mustDate(t, tt.aEnd), mustDate(t, tt.bStart), mustDate(t, tt.bEnd))
			assert.Equal(t, tt.want, got)

			// Пересечение симметрично
			swapped := RangesOverlap(mustDate(t, tt.bStart), mustDate(t, tt.bEnd), mustDate(t, tt.aStart), mustDate(t, tt.aEnd))
			assert.Equal(t, got, swapped)
		})
	}
}

func TestRangesOverlapRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	for i := 0; i < 1000; i++ {
		aStart := rng.Intn(60)
		aEnd := aStart + 1 + rng.Intn(30)
		bStart := rng.Intn(60)
		bEnd := bStart + 1 + rng.Intn(30)

		// Эталон: полуинтервалы [start, end) пересекаются, когда существует
		// общий день
		want := false
		for d := aStart; d < aEnd; d++ {
			if d >= bStart && d < bEnd {
				want = true
				break
			}
		}

		got := RangesOverlap(day(aStart), day(aEnd), day(bStart), day(bEnd))
		assert.Equal(t, want, got, "[%d, %d) vs [%d, %d)", aStart, aEnd, bStart, bEnd)
	}
}

func TestOptionsPatchApply(t *testing.T) {
	base := ReservationOptions{ExtraBed: true, Parking: false, EarlyCheckIn: true}

	truth := true
	falsity := false
	patched := OptionsPatch{Parking: &truth, EarlyCheckIn: &falsity}.Apply(base)

	assert.True(t, patched.ExtraBed, "untouched field keeps its value")
	assert.True(t, patched.Parking)
	assert.False(t, patched.EarlyCheckIn)
	assert.False(t, patched.LateCheckOut)
}

func TestReservationFilterOffset(t *testing.T) {
	assert.Equal(t, 0, ReservationFilter{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, ReservationFilter{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, ReservationFilter{Page: 10, Limit: 10}.Offset())
}

func mustDate(t *testing.T, s string) (parsed time.Time) {
	t.Helper()
	parsed, err := time.Parse(DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}
