package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateString(t *testing.T) {
	d, err := ParseDateString("2025-07-14")
	require.NoError(t, err)
	assert.Equal(t, DateString("2025-07-14"), d)

	for _, bad := range []string{"", "14.07.2025", "2025-7-14", "2025-07-32", "not a date"} {
		_, err := ParseDateString(bad)
		assert.ErrorIs(t, err, ErrInvalidDateFormat, "input %q", bad)
	}
}

func TestNewDateStringDropsTime(t *testing.T) {
	d := NewDateString(time.Date(2025, 7, 14, 23, 59, 1, 0, time.UTC))
	assert.Equal(t, DateString("2025-07-14"), d)
}

func TestTime(t *testing.T) {
	assert.Equal(t, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), DateString("2025-07-14").Time())
	assert.True(t, DateString("garbage").Time().IsZero())
}

func TestBefore(t *testing.T) {
	assert.True(t, DateString("2025-07-14").Before("2025-07-18"))
	assert.False(t, DateString("2025-07-18").Before("2025-07-14"))
	assert.False(t, DateString("2025-07-14").Before("2025-07-14"))
}

func TestIsZero(t *testing.T) {
	assert.True(t, DateString("").IsZero())
	assert.False(t, DateString("2025-07-14").IsZero())
}
