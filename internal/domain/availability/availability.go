package availability

import (
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

// This package decides, from a snapshot of bookings, whether a proposed stay
// range is free. The answer is only as fresh as the snapshot: between the
// check and the commit another request can book the same nights, so the
// booking command must re-run the check inside the transaction that persists
// the new row. Nothing here locks or performs I/O.

// Conflicts reports whether an existing booking blocks the proposed range on
// the given villa. Cancelled bookings never block, the excluded identifier
// (a booking being re-validated against its own edit) never blocks, and
// back-to-back stays sharing a single boundary day do not overlap.
func Conflicts(b *booking.Booking, villaID villa.ID, r daterange.StayRange, exclude booking.ID) bool {
	if b == nil || b.VillaID != villaID {
		return false
	}
	if !b.Blocks() {
		return false
	}
	if exclude != "" && b.ID == exclude {
		return false
	}
	return b.Range.Overlaps(r)
}

// RangeFree reports whether no booking in the snapshot conflicts with the
// proposed range. A degenerate range (start >= end) trivially overlaps
// nothing; callers are expected to reject it before quoting.
func RangeFree(bookings []*booking.Booking, villaID villa.ID, r daterange.StayRange, exclude booking.ID) bool {
	for _, b := range bookings {
		if Conflicts(b, villaID, r, exclude) {
			return false
		}
	}
	return true
}

// DayBooked classifies a single calendar day for calendar rendering: true
// when the day is an occupied night of any blocking booking on the villa.
// A stay's check-out day counts as free so a new stay may begin on it.
func DayBooked(bookings []*booking.Booking, villaID villa.ID, day time.Time) bool {
	for _, b := range bookings {
		if b == nil || b.VillaID != villaID || !b.Blocks() {
			continue
		}
		if b.Range.ContainsDay(day) {
			return true
		}
	}
	return false
}
