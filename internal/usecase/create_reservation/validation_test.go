package create_reservation

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apartmani-bj/booking-service/pkg/ptr"
)

var testNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		UnitID:       uuid.NewString(),
		GuestName:    "Ana Petrović",
		GuestEmail:   "ana.petrovic@example.com",
		GuestPhone:   ptr.Ptr("+381 64 123 4567"),
		CheckIn:      "2025-07-14",
		CheckOut:     "2025-07-18",
		Language:     "sr",
		ConsentGiven: true,
	}
}

func TestValidateRequestOK(t *testing.T) {
	got, err := validateRequest(validRequest(), testNow)
	require.NoError(t, err)

	assert.Equal(t, "Ana Petrović", got.guestName)
	assert.Equal(t, "ana.petrovic@example.com", got.guestEmail)
	require.NotNil(t, got.guestPhone)
	assert.Equal(t, "+381 64 123 4567", *got.guestPhone)
	assert.Equal(t, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), got.checkIn)
}

func TestValidateRequestNormalizesEmail(t *testing.T) {
	req := validRequest()
	req.GuestEmail = "  Ana.Petrovic@Example.COM "

	got, err := validateRequest(req, testNow)
	require.NoError(t, err)
	assert.Equal(t, "ana.petrovic@example.com", got.guestEmail)
}

func TestValidateRequestGuestName(t *testing.T) {
	tests := []struct {
		name      string
		guestName string
		wantErr   bool
	}{
		{"ok with hyphen", "Ana-Marija Kovač", false},
		{"ok with apostrophe", "O'Brien", false},
		{"ok cyrillic", "Ана Петровић", false},
		{"too short", "A", true},
		{"too long", strings.Repeat("Ana ", 30) + "Ana", true},
		{"digits rejected", "Ana123", true},
		{"symbols rejected", "Ana <script>", true},
		{"leading hyphen rejected", "-Ana", true},
		{"excessive repetition", "Aaaaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.GuestName = tt.guestName

			_, err := validateRequest(req, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequestGuestEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"ok", "guest@example.com", false},
		{"ok with plus", "guest+tag@example.com", false},
		{"missing at", "guest.example.com", true},
		{"missing domain", "guest@", true},
		{"consecutive dots", "guest..name@example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
		{"disposable tempmail", "guest@tempmail.org", true},
		{"disposable mailinator", "guest@mailinator.com", true},
		{"disposable 10minutemail", "guest@10minutemail.net", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.GuestEmail = tt.email

			_, err := validateRequest(req, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequestGuestPhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   *string
		wantErr bool
	}{
		{"nil phone is fine", nil, false},
		{"blank phone treated as absent", ptr.Ptr("   "), false},
		{"ok international", ptr.Ptr("+381641234567"), false},
		{"ok with separators", ptr.Ptr("(064) 123-45-67"), false},
		{"letters rejected", ptr.Ptr("phone12345"), true},
		{"too few digits", ptr.Ptr("+381 12"), true},
		{"too many digits", ptr.Ptr("1234567890123456"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.GuestPhone = tt.phone

			_, err := validateRequest(req, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequestDates(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
	}{
		{"ok", "2025-07-14", "2025-07-18", false},
		{"ok today", "2025-07-01", "2025-07-02", false},
		{"ok max stay", "2025-07-01", "2025-07-31", false},
		{"check-in in the past", "2025-06-30", "2025-07-05", true},
		{"check-out equals check-in", "2025-07-14", "2025-07-14", true},
		{"check-out before check-in", "2025-07-18", "2025-07-14", true},
		{"stay too long", "2025-07-01", "2025-08-05", true},
		{"bad check-in format", "14.07.2025", "2025-07-18", true},
		{"bad check-out format", "2025-07-14", "18-07-2025", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.CheckIn = tt.checkIn
			req.CheckOut = tt.checkOut

			_, err := validateRequest(req, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequestConsent(t *testing.T) {
	req := validRequest()
	req.ConsentGiven = false

	_, err := validateRequest(req, testNow)
	assert.ErrorIs(t, err, ErrConsentRequired)
}

func TestValidateRequestNote(t *testing.T) {
	req := validRequest()
	req.Note = ptr.Ptr(strings.Repeat("x", 501))
	_, err := validateRequest(req, testNow)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.Note = ptr.Ptr("Please prepare a baby cot.")
	got, err := validateRequest(req, testNow)
	require.NoError(t, err)
	require.NotNil(t, got.note)
	assert.Equal(t, "Please prepare a baby cot.", *got.note)
}

func TestValidateRequestUnitID(t *testing.T) {
	req := validRequest()
	req.UnitID = "not-a-uuid"

	_, err := validateRequest(req, testNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHasExcessiveRepetition(t *testing.T) {
	assert.False(t, hasExcessiveRepetition("aaaa", 4))
	assert.True(t, hasExcessiveRepetition("aaaaa", 4))
	assert.True(t, hasExcessiveRepetition("xxxxxxxx", 4))
	assert.False(t, hasExcessiveRepetition("abababab", 4))
}
