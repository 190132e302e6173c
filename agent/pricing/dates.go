// Package pricing is the validation engine: date-range checks and quote
// arithmetic. Everything here is pure; monetary values are integer centavos
// until formatting time.
package pricing

import (
	"errors"
	"time"
)

var (
	// ErrInvertedRange is a hard failure: check-out on or before check-in is
	// never silently corrected.
	ErrInvertedRange = errors.New("check-out must be after check-in")
)

const DateLayout = "2006-01-02"

// StayCheck is the outcome of validating a requested date range.
// When OK is false the range lies in the past and Suggested* carry a
// forward-shifted alternative so the dialogue can keep moving.
type StayCheck struct {
	OK                bool
	SuggestedCheckIn  time.Time
	SuggestedCheckOut time.Time
}

// CheckStay validates (checkIn, checkOut) against today. Inverted ranges fail
// hard. A past check-in never fails: the same day/month is shifted to the
// next occurring year at or after today, preserving the stay length.
func CheckStay(checkIn, checkOut, today time.Time) (StayCheck, error) {
	checkIn = dateOnly(checkIn)
	checkOut = dateOnly(checkOut)
	today = dateOnly(today)

	if !checkOut.After(checkIn) {
		return StayCheck{}, ErrInvertedRange
	}

	if !checkIn.Before(today) {
		return StayCheck{OK: true}, nil
	}

	sci, sco := checkIn, checkOut
	for sci.Before(today) {
		sci = sci.AddDate(1, 0, 0)
		sco = sco.AddDate(1, 0, 0)
	}
	return StayCheck{
		OK:                false,
		SuggestedCheckIn:  sci,
		SuggestedCheckOut: sco,
	}, nil
}

// Nights returns the whole days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(dateOnly(checkOut).Sub(dateOnly(checkIn)) / (24 * time.Hour))
}

// ParseDate parses a YYYY-MM-DD argument.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
