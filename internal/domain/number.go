package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

// numberAlphabet excludes nothing on purpose: the human-readable number is a
// lookup aid, uniqueness is enforced by the store's unique index.
const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const numberSuffixLength = 4

// GenerateReservationNumber produces a human-readable reservation number of
// the form BJ-<year>-<4 alphanumeric>. Collisions are possible; the caller
// retries on a unique-index violation.
func GenerateReservationNumber(now time.Time) string {
	buf := make([]byte, numberSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived suffix rather than panic in the booking path.
		nanos := now.UnixNano()
		for i := range buf {
			buf[i] = numberAlphabet[nanos%int64(len(numberAlphabet))]
			nanos /= int64(len(numberAlphabet))
		}
	} else {
		for i := range buf {
			buf[i] = numberAlphabet[int(buf[i])%len(numberAlphabet)]
		}
	}
	return fmt.Sprintf("BJ-%d-%s", now.Year(), string(buf))
}
