package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReservationNumber(t *testing.T) {
	now := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	format := regexp.MustCompile(`^BJ-2025-[0-9A-Z]{4}$`)

	seen := make(map[string]int)
	for i := 0; i < 1000; i++ {
		number := GenerateReservationNumber(now)
		assert.Regexp(t, format, number)
		seen[number]++
	}

	// 36^4 вариантов, тысяча генераций не должна выродиться в константу
	assert.Greater(t, len(seen), 900)
}

func TestGenerateReservationNumberUsesYear(t *testing.T) {
	number := GenerateReservationNumber(time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^BJ-2031-`, number)
}
