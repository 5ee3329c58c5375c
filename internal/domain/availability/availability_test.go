package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(t *testing.T, checkIn, checkOut time.Time) daterange.StayRange {
	t.Helper()
	r, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	return r
}

func existing(id booking.ID, villaID villa.ID, r daterange.StayRange, status booking.Status) *booking.Booking {
	return &booking.Booking{ID: id, VillaID: villaID, Range: r, Status: status}
}

func TestRangeFree(t *testing.T) {
	proposed := stay(t, date(2026, time.October, 20), date(2026, time.October, 25))
	confirmed := stay(t, date(2026, time.October, 22), date(2026, time.October, 28))

	tests := []struct {
		name     string
		bookings []*booking.Booking
		exclude  booking.ID
		want     bool
	}{
		{
			name: "overlapping confirmed stay blocks",
			bookings: []*booking.Booking{
				existing("BK-1", "villa-azure", confirmed, booking.StatusConfirmed),
			},
			want: false,
		},
		{
			name: "cancelled stay on the same dates is free",
			bookings: []*booking.Booking{
				existing("BK-1", "villa-azure", proposed, booking.StatusCancelled),
			},
			want: true,
		},
		{
			name: "pending stay blocks too",
			bookings: []*booking.Booking{
				existing("BK-1", "villa-azure", confirmed, booking.StatusPending),
			},
			want: false,
		},
		{
			name: "other villa does not block",
			bookings: []*booking.Booking{
				existing("BK-1", "villa-rif", confirmed, booking.StatusConfirmed),
			},
			want: true,
		},
		{
			name: "own booking excluded while editing",
			bookings: []*booking.Booking{
				existing("BK-1", "villa-azure", proposed, booking.StatusConfirmed),
			},
			exclude: "BK-1",
			want:    true,
		},
		{
			name: "back to back stays share the boundary day",
			bookings: []*booking.Booking{
				existing("BK-1", "villa-azure", stay(t, date(2026, time.October, 15), date(2026, time.October, 20)), booking.StatusConfirmed),
				existing("BK-2", "villa-azure", stay(t, date(2026, time.October, 25), date(2026, time.October, 30)), booking.StatusConfirmed),
			},
			want: true,
		},
		{
			name: "nil entries are skipped",
			bookings: []*booking.Booking{
				nil,
				existing("BK-1", "villa-azure", confirmed, booking.StatusCancelled),
			},
			want: true,
		},
		{
			name: "empty snapshot",
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangeFree(tt.bookings, "villa-azure", proposed, tt.exclude))
		})
	}
}

func TestConflictsIgnoresExcludeOnOtherBookings(t *testing.T) {
	r := stay(t, date(2026, time.October, 20), date(2026, time.October, 25))
	b := existing("BK-2", "villa-azure", r, booking.StatusConfirmed)

	assert.True(t, Conflicts(b, "villa-azure", r, "BK-1"))
	assert.False(t, Conflicts(b, "villa-azure", r, "BK-2"))
}

func TestDayBooked(t *testing.T) {
	bookings := []*booking.Booking{
		existing("BK-1", "villa-azure", stay(t, date(2026, time.October, 20), date(2026, time.October, 25)), booking.StatusConfirmed),
		existing("BK-2", "villa-azure", stay(t, date(2026, time.November, 1), date(2026, time.November, 3)), booking.StatusCancelled),
	}

	assert.True(t, DayBooked(bookings, "villa-azure", date(2026, time.October, 20)))
	assert.True(t, DayBooked(bookings, "villa-azure", date(2026, time.October, 24)))
	// Check-out day is free for the next arrival.
	assert.False(t, DayBooked(bookings, "villa-azure", date(2026, time.October, 25)))
	// Cancelled stays never show as booked.
	assert.False(t, DayBooked(bookings, "villa-azure", date(2026, time.November, 1)))
	assert.False(t, DayBooked(bookings, "villa-rif", date(2026, time.October, 21)))
}
