package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testStay(t *testing.T) daterange.StayRange {
	t.Helper()
	r, err := daterange.New(date(2026, time.October, 20), date(2026, time.October, 25))
	require.NoError(t, err)
	return r
}

func testQuote(nights int) pricing.StayQuote {
	return pricing.StayQuote{
		Nights:   nights,
		Subtotal: money.Must(int64(nights)*350_00, "MAD"),
		Total:    money.Must(int64(nights)*350_00+80_00, "MAD"),
	}
}

func newPending(t *testing.T) *Booking {
	t.Helper()
	b, err := New(CreateParams{
		ID:          "BK-1001",
		VillaID:     "villa-azure",
		GuestID:     "guest-1",
		ClientName:  "Nadia El Amrani",
		ClientEmail: "Nadia@Example.com",
		Range:       testStay(t),
		Guests:      4,
		Quote:       testQuote(5),
		CreatedAt:   date(2026, time.September, 1),
	})
	require.NoError(t, err)
	return b
}

func TestNewValidation(t *testing.T) {
	valid := CreateParams{
		ID:          "BK-1",
		VillaID:     "villa-azure",
		ClientName:  "Guest",
		ClientEmail: "guest@example.com",
		Range:       testStay(t),
		Guests:      2,
		Quote:       testQuote(5),
		CreatedAt:   date(2026, time.September, 1),
	}

	t.Run("ok", func(t *testing.T) {
		b, err := New(valid)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, "guest@example.com", b.ClientEmail)
		require.Len(t, b.PendingEvents(), 1)
		assert.Equal(t, "booking.requested", b.PendingEvents()[0].EventName())
	})

	t.Run("email lowered", func(t *testing.T) {
		params := valid
		params.ClientEmail = "  GUEST@Example.COM "
		b, err := New(params)
		require.NoError(t, err)
		assert.Equal(t, "guest@example.com", b.ClientEmail)
	})

	t.Run("no guests", func(t *testing.T) {
		params := valid
		params.Guests = 0
		_, err := New(params)
		assert.ErrorIs(t, err, ErrInvalidGuests)
	})

	t.Run("missing client", func(t *testing.T) {
		params := valid
		params.ClientName = " "
		_, err := New(params)
		assert.ErrorIs(t, err, ErrClientRequired)
	})

	t.Run("quote nights mismatch", func(t *testing.T) {
		params := valid
		params.Quote = testQuote(3)
		_, err := New(params)
		assert.Error(t, err)
	})
}

func TestValidateCheckIn(t *testing.T) {
	now := date(2026, time.October, 21)

	pastStay, err := daterange.New(date(2026, time.October, 20), date(2026, time.October, 25))
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateCheckIn(pastStay, now), ErrCheckInInPast)

	// Check-in today is fine.
	todayStay, err := daterange.New(now, date(2026, time.October, 25))
	require.NoError(t, err)
	assert.NoError(t, ValidateCheckIn(todayStay, now))
}

func TestLifecycleHappyPath(t *testing.T) {
	b := newPending(t)
	now := date(2026, time.September, 2)

	require.NoError(t, b.Confirm(now))
	assert.Equal(t, StatusConfirmed, b.Status)

	require.NoError(t, b.CheckIn(now))
	assert.Equal(t, StatusCheckedIn, b.Status)

	require.NoError(t, b.Complete(now))
	assert.Equal(t, StatusCompleted, b.Status)
}

func TestInvalidTransitions(t *testing.T) {
	now := date(2026, time.September, 2)

	tests := []struct {
		name string
		run  func(b *Booking) error
	}{
		{"check-in before confirm", func(b *Booking) error { return b.CheckIn(now) }},
		{"complete before check-in", func(b *Booking) error { return b.Complete(now) }},
		{"double confirm", func(b *Booking) error {
			if err := b.Confirm(now); err != nil {
				return err
			}
			return b.Confirm(now)
		}},
		{"cancel after check-in", func(b *Booking) error {
			if err := b.Confirm(now); err != nil {
				return err
			}
			if err := b.CheckIn(now); err != nil {
				return err
			}
			return b.Cancel("too late", now)
		}},
		{"check-in after cancel", func(b *Booking) error {
			if err := b.Cancel("changed plans", now); err != nil {
				return err
			}
			return b.CheckIn(now)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(newPending(t)), ErrInvalidState)
		})
	}
}

func TestCancelReleasesDates(t *testing.T) {
	b := newPending(t)
	assert.True(t, b.Blocks())

	require.NoError(t, b.Cancel("guest request", date(2026, time.September, 2)))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.False(t, b.Blocks())

	events := b.PendingEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "booking.cancelled", events[1].EventName())
}

func TestConfirmedStillCancellable(t *testing.T) {
	b := newPending(t)
	now := date(2026, time.September, 2)

	require.NoError(t, b.Confirm(now))
	require.NoError(t, b.Cancel("storm warning", now))
	assert.False(t, b.Blocks())
}
