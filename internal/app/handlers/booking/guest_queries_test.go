package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
)

func seedGuestBooking(t *testing.T, f *requestFixture, id, guestID string, checkIn time.Time) {
	t.Helper()
	cmd := requestCommand("villa-azure")
	cmd.CommandID = id
	cmd.GuestID = guestID
	cmd.CheckIn = checkIn
	cmd.CheckOut = checkIn.AddDate(0, 0, 3)
	_, err := f.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
}

func TestGuestBookingsListsOwnOnly(t *testing.T) {
	f := newRequestFixture(t)
	seedGuestBooking(t, f, "BK-1", "guest-1", date(2026, time.October, 1))
	seedGuestBooking(t, f, "BK-2", "guest-2", date(2026, time.October, 10))
	seedGuestBooking(t, f, "BK-3", "guest-1", date(2026, time.October, 20))

	h := &GuestBookingsHandler{UoWFactory: f.handler.UoWFactory}
	out, err := h.Handle(context.Background(), GuestBookingsQuery{GuestID: "guest-1"})
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.Equal(t, "BK-1", out.Items[0].ID)
	assert.Equal(t, "BK-3", out.Items[1].ID)
	assert.Equal(t, "Villa villa-azure", out.Items[0].VillaName)
	assert.Equal(t, 3, out.Items[0].Quote.Nights)
}

func TestGuestBookingsEmpty(t *testing.T) {
	f := newRequestFixture(t)

	h := &GuestBookingsHandler{UoWFactory: f.handler.UoWFactory}
	out, err := h.Handle(context.Background(), GuestBookingsQuery{GuestID: "guest-1"})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestBookingDetailOwnership(t *testing.T) {
	f := newRequestFixture(t)
	seedGuestBooking(t, f, "BK-1", "guest-1", date(2026, time.October, 1))

	h := &BookingDetailHandler{UoWFactory: f.handler.UoWFactory}
	ctx := context.Background()

	own, err := h.Handle(ctx, BookingDetailQuery{BookingID: "BK-1", GuestID: "guest-1"})
	require.NoError(t, err)
	assert.Equal(t, "BK-1", own.ID)
	assert.Equal(t, string(domainbooking.StatusPending), own.Status)

	_, err = h.Handle(ctx, BookingDetailQuery{BookingID: "BK-1", GuestID: "guest-2"})
	assert.ErrorIs(t, err, ErrNotYours)

	// Staff can read any booking.
	_, err = h.Handle(ctx, BookingDetailQuery{BookingID: "BK-1", GuestID: "guest-2", Staff: true})
	assert.NoError(t, err)

	_, err = h.Handle(ctx, BookingDetailQuery{BookingID: "BK-ghost", GuestID: "guest-1"})
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestAccessCodeQuery(t *testing.T) {
	f := newRequestFixture(t)
	seedGuestBooking(t, f, "BK-1001", "guest-1", date(2026, time.October, 1))

	h := &AccessCodeHandler{UoWFactory: f.handler.UoWFactory}
	ctx := context.Background()

	res, err := h.Handle(ctx, AccessCodeQuery{BookingID: "BK-1001", GuestID: "guest-1"})
	require.NoError(t, err)
	assert.Equal(t, "BK-1001", res.BookingID)
	assert.Equal(t, domainbooking.AccessCode("BK-1001"), res.Code)
	assert.Len(t, res.Code, 4)

	_, err = h.Handle(ctx, AccessCodeQuery{BookingID: "BK-1001", GuestID: "guest-2"})
	assert.ErrorIs(t, err, ErrNotYours)
}

func TestReadUnitRequiresFactory(t *testing.T) {
	h := &AccessCodeHandler{}
	_, err := h.Handle(context.Background(), AccessCodeQuery{BookingID: "BK-1"})
	assert.ErrorIs(t, err, uow.ErrUnitOfWorkMissing)
}
