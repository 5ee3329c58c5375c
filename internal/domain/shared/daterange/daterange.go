package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: check-out must be after check-in")

// StayRange represents a half-open interval of calendar days [CheckIn, CheckOut).
// Both bounds are normalized to midnight UTC so the type carries dates, not
// instants: a stay from day A to day A+1 is exactly one night regardless of
// the wall-clock time the caller supplied.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a validated range from the calendar days of the provided times.
func New(checkIn, checkOut time.Time) (StayRange, error) {
	r := StayRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if err := r.Validate(); err != nil {
		return StayRange{}, err
	}
	return r, nil
}

// Day truncates a time to its calendar day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r StayRange) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !r.CheckOut.After(r.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts the nights in the range. A degenerate range reports zero.
func (r StayRange) Nights() int {
	if !r.CheckOut.After(r.CheckIn) {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
// Back-to-back stays (one check-out equals another check-in) do not overlap.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// ContainsDay reports whether the given calendar day is a night of the stay.
// The check-out day itself is not.
func (r StayRange) ContainsDay(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.CheckIn) && d.Before(r.CheckOut)
}

// EachNight invokes fn for every night of the stay in calendar order,
// starting at check-in and stopping before check-out.
func (r StayRange) EachNight(fn func(day time.Time)) {
	for day := r.CheckIn; day.Before(r.CheckOut); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}
