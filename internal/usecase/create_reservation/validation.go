package create_reservation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
)

var (
	// Имя: буквы любого алфавита, пробелы, дефисы и апострофы между словами
	nameRegexp = regexp.MustCompile(`^\p{L}+(?:[ '\-]\p{L}+)*$`)

	// Email валидируется после приведения к нижнему регистру
	emailRegexp = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}$`)

	// Телефон: цифры, ведущий плюс, пробелы, скобки, дефисы и точки
	phoneRegexp = regexp.MustCompile(`^\+?[0-9 ().\-]+$`)
)

// disposableEmailDomains одноразовые почтовые сервисы, с которых заявки не принимаются
var disposableEmailDomains = []string{
	"tempmail",
	"throwaway",
	"10minutemail",
	"guerrillamail",
	"mailinator",
}

// maxRepeatedRunes подряд идущих одинаковых символов в имени или заметке
const maxRepeatedRunes = 4

// validateRequest валидирует и нормализует входные данные запроса.
// Email приводится к нижнему регистру, имя и заметка к обрезанному виду.
func validateRequest(req *Request, now time.Time) (*validatedRequest, error) {
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, fmt.Errorf("%w: unitId must be a valid UUID", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.GuestName)
	if err := validateGuestName(name); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.GuestEmail))
	if err := validateGuestEmail(email); err != nil {
		return nil, err
	}

	phone := req.GuestPhone
	if phone != nil {
		trimmed := strings.TrimSpace(*phone)
		if trimmed == "" {
			phone = nil
		} else {
			if err := validateGuestPhone(trimmed); err != nil {
				return nil, err
			}
			phone = &trimmed
		}
	}

	note := req.Note
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed == "" {
			note = nil
		} else {
			if err := validateNote(trimmed); err != nil {
				return nil, err
			}
			note = &trimmed
		}
	}

	checkIn, checkOut, err := validateDates(req.CheckIn, req.CheckOut, now)
	if err != nil {
		return nil, err
	}

	if !req.ConsentGiven {
		return nil, ErrConsentRequired
	}

	return &validatedRequest{
		unitID:     unitID,
		guestName:  name,
		guestEmail: email,
		guestPhone: phone,
		checkIn:    checkIn,
		checkOut:   checkOut,
		options: domain.ReservationOptions{
			ExtraBed:     req.Options.ExtraBed,
			Parking:      req.Options.Parking,
			EarlyCheckIn: req.Options.EarlyCheckIn,
			LateCheckOut: req.Options.LateCheckOut,
		},
		note: note,
	}, nil
}

func validateGuestName(name string) error {
	length := len([]rune(name))
	if length < domain.MinGuestNameLength || length > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guestName must be %d-%d characters",
			ErrInvalidInput, domain.MinGuestNameLength, domain.MaxGuestNameLength)
	}
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("%w: guestName contains invalid characters", ErrInvalidInput)
	}
	if hasExcessiveRepetition(name, maxRepeatedRunes) {
		return fmt.Errorf("%w: guestName looks like gibberish", ErrInvalidInput)
	}
	return nil
}

func validateGuestEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: guestEmail is required", ErrInvalidInput)
	}
	if len(email) > domain.MaxEmailLength {
		return fmt.Errorf("%w: guestEmail must not exceed %d characters", ErrInvalidInput, domain.MaxEmailLength)
	}
	if strings.Contains(email, "..") || !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: guestEmail is not a valid email address", ErrInvalidInput)
	}

	at := strings.LastIndex(email, "@")
	emailDomain := email[at+1:]
	for _, disposable := range disposableEmailDomains {
		if strings.Contains(emailDomain, disposable) {
			return fmt.Errorf("%w: disposable email addresses are not accepted", ErrInvalidInput)
		}
	}
	return nil
}

func validateGuestPhone(phone string) error {
	if len(phone) < domain.MinPhoneLength || len(phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: guestPhone must be %d-%d characters",
			ErrInvalidInput, domain.MinPhoneLength, domain.MaxPhoneLength)
	}
	if !phoneRegexp.MatchString(phone) {
		return fmt.Errorf("%w: guestPhone contains invalid characters", ErrInvalidInput)
	}

	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < domain.MinPhoneDigits || digits > domain.MaxPhoneDigits {
		return fmt.Errorf("%w: guestPhone must contain %d-%d digits",
			ErrInvalidInput, domain.MinPhoneDigits, domain.MaxPhoneDigits)
	}
	return nil
}

func validateNote(note string) error {
	if len([]rune(note)) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note must not exceed %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}
	if hasExcessiveRepetition(note, maxRepeatedRunes*2) {
		return fmt.Errorf("%w: note looks like gibberish", ErrInvalidInput)
	}
	return nil
}

func validateDates(checkInRaw, checkOutRaw string, now time.Time) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(domain.DateFormat, checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkIn must be a valid date (YYYY-MM-DD)", ErrInvalidInput)
	}
	checkOut, err := time.Parse(domain.DateFormat, checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOut must be a valid date (YYYY-MM-DD)", ErrInvalidInput)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkIn cannot be in the past", ErrInvalidInput)
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidInput)
	}
	if domain.Nights(checkIn, checkOut) > domain.MaxStayNights {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: stay cannot exceed %d nights", ErrInvalidInput, domain.MaxStayNights)
	}

	return checkIn, checkOut, nil
}

// hasExcessiveRepetition сообщает, есть ли в строке больше max подряд
// идущих одинаковых символов. Регулярные выражения Go не поддерживают
// обратные ссылки, поэтому проверка ручная.
func hasExcessiveRepetition(s string, max int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run > max {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
