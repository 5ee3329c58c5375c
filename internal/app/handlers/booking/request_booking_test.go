package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/policies"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainrange "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
	infraoutbox "github.com/Ishaq74/tetouanluxury-sub001/internal/infra/outbox"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type requestFixture struct {
	villas   *memory.VillaRepository
	bookings *memory.BookingRepository
	store    *memory.OutboxStore
	stage    *infraoutbox.Stage
	handler  *RequestBookingHandler
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	calc := pricing.NewSeasonalCalculator(pricing.DefaultPolicy("MAD"))
	f := &requestFixture{
		villas:   memory.NewVillaRepository(),
		bookings: memory.NewBookingRepository(),
		store:    memory.NewOutboxStore(),
	}
	f.stage = infraoutbox.NewStage(f.store)
	f.handler = &RequestBookingHandler{
		UoWFactory: &memory.Factory{
			Villas:   f.villas,
			Bookings: f.bookings,
			Users:    memory.NewUserRepository(),
			Pricing:  calc,
		},
		Pricing: policies.CalculatorAdapter{Calculator: calc},
		Outbox:  f.stage,
		Now:     func() time.Time { return date(2026, time.September, 1) },
	}
	f.seedVilla(t, "villa-azure", 6)
	return f
}

func (f *requestFixture) seedVilla(t *testing.T, id string, maxGuests int) *domainvilla.Villa {
	t.Helper()
	v, err := domainvilla.New(domainvilla.CreateParams{
		ID:          domainvilla.ID(id),
		Name:        "Villa " + id,
		NightlyRate: money.Must(350_00, "MAD"),
		MaxGuests:   maxGuests,
		Now:         date(2026, time.August, 1),
	})
	require.NoError(t, err)
	v.ClearEvents()
	require.NoError(t, f.villas.Save(context.Background(), v))
	return v
}

func (f *requestFixture) seedBooking(t *testing.T, id string, villaID string, checkIn, checkOut time.Time, status domainbooking.Status) {
	t.Helper()
	r, err := domainrange.New(checkIn, checkOut)
	require.NoError(t, err)
	b := &domainbooking.Booking{
		ID:          domainbooking.ID(id),
		VillaID:     domainvilla.ID(villaID),
		ClientName:  "Existing Guest",
		ClientEmail: "existing@example.com",
		Range:       r,
		Guests:      2,
		Status:      status,
		CreatedAt:   date(2026, time.August, 15),
		UpdatedAt:   date(2026, time.August, 15),
	}
	require.NoError(t, f.bookings.Save(context.Background(), b))
}

func requestCommand(villaID string) RequestBookingCommand {
	return RequestBookingCommand{
		CommandID:   "BK-1001",
		VillaID:     villaID,
		GuestID:     "guest-1",
		ClientName:  "Nadia El Amrani",
		ClientEmail: "nadia@example.com",
		CheckIn:     date(2026, time.October, 20),
		CheckOut:    date(2026, time.October, 25),
		Guests:      4,
	}
}

func TestRequestBookingSuccess(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	res, err := f.handler.Handle(ctx, requestCommand("villa-azure"))
	require.NoError(t, err)
	assert.Equal(t, "BK-1001", res.BookingID)

	saved, err := f.bookings.ByID(ctx, "BK-1001")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, saved.Status)
	assert.Equal(t, 5, saved.Quote.Nights)
	assert.Equal(t, "nadia@example.com", saved.ClientEmail)
	assert.Empty(t, saved.PendingEvents())

	// The requested event is staged; the transaction middleware normally
	// flushes it after commit.
	require.NoError(t, f.stage.Flush(ctx))
	assert.Equal(t, 1, f.store.Pending())
}

func TestRequestBookingRejectsOverlap(t *testing.T) {
	f := newRequestFixture(t)
	f.seedBooking(t, "BK-0001", "villa-azure",
		date(2026, time.October, 22), date(2026, time.October, 28), domainbooking.StatusConfirmed)

	_, err := f.handler.Handle(context.Background(), requestCommand("villa-azure"))
	assert.ErrorIs(t, err, ErrDatesUnavailable)

	_, err = f.bookings.ByID(context.Background(), "BK-1001")
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestRequestBookingCancelledStayFreesDates(t *testing.T) {
	f := newRequestFixture(t)
	f.seedBooking(t, "BK-0001", "villa-azure",
		date(2026, time.October, 20), date(2026, time.October, 25), domainbooking.StatusCancelled)

	_, err := f.handler.Handle(context.Background(), requestCommand("villa-azure"))
	assert.NoError(t, err)
}

func TestRequestBookingOtherVillaDoesNotBlock(t *testing.T) {
	f := newRequestFixture(t)
	f.seedVilla(t, "villa-rif", 4)
	f.seedBooking(t, "BK-0001", "villa-rif",
		date(2026, time.October, 20), date(2026, time.October, 25), domainbooking.StatusConfirmed)

	_, err := f.handler.Handle(context.Background(), requestCommand("villa-azure"))
	assert.NoError(t, err)
}

func TestRequestBookingValidation(t *testing.T) {
	t.Run("check-in in the past", func(t *testing.T) {
		f := newRequestFixture(t)
		cmd := requestCommand("villa-azure")
		cmd.CheckIn = date(2026, time.August, 20)
		cmd.CheckOut = date(2026, time.August, 25)
		_, err := f.handler.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrCheckInInPast)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		f := newRequestFixture(t)
		cmd := requestCommand("villa-azure")
		cmd.CheckOut = cmd.CheckIn.AddDate(0, 0, -1)
		_, err := f.handler.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, domainrange.ErrInvalidRange)
	})

	t.Run("unknown villa", func(t *testing.T) {
		f := newRequestFixture(t)
		_, err := f.handler.Handle(context.Background(), requestCommand("villa-ghost"))
		assert.ErrorIs(t, err, domainvilla.ErrNotFound)
	})

	t.Run("retired villa", func(t *testing.T) {
		f := newRequestFixture(t)
		ctx := context.Background()
		v, err := f.villas.ByID(ctx, "villa-azure")
		require.NoError(t, err)
		require.NoError(t, v.Retire(date(2026, time.August, 20)))
		v.ClearEvents()
		require.NoError(t, f.villas.Save(ctx, v))

		_, err = f.handler.Handle(ctx, requestCommand("villa-azure"))
		assert.ErrorIs(t, err, domainvilla.ErrNotBookable)
	})

	t.Run("party too large", func(t *testing.T) {
		f := newRequestFixture(t)
		cmd := requestCommand("villa-azure")
		cmd.Guests = 12
		_, err := f.handler.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, domainvilla.ErrInvalidGuests)
	})
}
