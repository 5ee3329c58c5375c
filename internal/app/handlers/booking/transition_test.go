package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/middleware"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
)

type notifierSpy struct {
	confirmed []string
	cancelled []string
}

func (n *notifierSpy) BookingConfirmed(_ context.Context, _ string, bookingID string) error {
	n.confirmed = append(n.confirmed, bookingID)
	return nil
}

func (n *notifierSpy) BookingCancelled(_ context.Context, _ string, bookingID string) error {
	n.cancelled = append(n.cancelled, bookingID)
	return nil
}

type transitionFixture struct {
	*requestFixture
	bus      commands.Bus
	notifier *notifierSpy
}

// newTransitionFixture runs the full command pipeline so transitions execute
// inside a unit of work with the outbox flushed after commit, like in the
// composed service.
func newTransitionFixture(t *testing.T) *transitionFixture {
	t.Helper()
	rf := newRequestFixture(t)
	notifier := &notifierSpy{}

	base := commands.NewInMemoryBus()
	commands.Register[RequestBookingCommand, *RequestBookingResult](base, requestBookingKey, rf.handler)
	RegisterTransitions(base, &TransitionHandler{
		Outbox:   rf.stage,
		Notifier: notifier,
		Now:      func() time.Time { return date(2026, time.September, 2) },
	})

	bus := middleware.ChainCommands(base,
		middleware.Transaction(rf.handler.UoWFactory),
		middleware.OutboxFlush(rf.stage),
	)
	return &transitionFixture{requestFixture: rf, bus: bus, notifier: notifier}
}

func (f *transitionFixture) request(t *testing.T) string {
	t.Helper()
	res, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](
		context.Background(), f.bus, requestCommand("villa-azure"))
	require.NoError(t, err)
	return res.BookingID
}

func TestTransitionLifecycle(t *testing.T) {
	f := newTransitionFixture(t)
	ctx := context.Background()
	id := f.request(t)

	res, err := commands.Dispatch[ConfirmBookingCommand, *TransitionResult](ctx, f.bus, ConfirmBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusConfirmed), res.Status)
	assert.Equal(t, []string{id}, f.notifier.confirmed)

	res, err = commands.Dispatch[CheckInBookingCommand, *TransitionResult](ctx, f.bus, CheckInBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusCheckedIn), res.Status)

	res, err = commands.Dispatch[CompleteBookingCommand, *TransitionResult](ctx, f.bus, CompleteBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusCompleted), res.Status)

	saved, err := f.bookings.ByID(ctx, domainbooking.ID(id))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCompleted, saved.Status)
	assert.Empty(t, saved.PendingEvents())

	// requested + confirmed + checked_in + completed all reached the store.
	assert.Equal(t, 4, f.store.Pending())
}

func TestTransitionCancelFreesDates(t *testing.T) {
	f := newTransitionFixture(t)
	ctx := context.Background()
	id := f.request(t)

	res, err := commands.Dispatch[CancelBookingCommand, *TransitionResult](ctx, f.bus, CancelBookingCommand{BookingID: id, Reason: "guest request"})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusCancelled), res.Status)
	assert.Equal(t, []string{id}, f.notifier.cancelled)

	// The same dates can be booked again.
	cmd := requestCommand("villa-azure")
	cmd.CommandID = "BK-1002"
	_, err = commands.Dispatch[RequestBookingCommand, *RequestBookingResult](ctx, f.bus, cmd)
	assert.NoError(t, err)
}

// Two requests race for the same nights; the transaction middleware
// serializes the units of work so the availability check and the insert
// cannot interleave, and exactly one request wins.
func TestRequestBookingConcurrentConflict(t *testing.T) {
	f := newTransitionFixture(t)
	ctx := context.Background()

	first := requestCommand("villa-azure")
	second := requestCommand("villa-azure")
	second.CommandID = "BK-1002"

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, cmd := range []RequestBookingCommand{first, second} {
		wg.Add(1)
		go func(i int, cmd RequestBookingCommand) {
			defer wg.Done()
			_, errs[i] = commands.Dispatch[RequestBookingCommand, *RequestBookingResult](ctx, f.bus, cmd)
		}(i, cmd)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrDatesUnavailable):
			lost++
		default:
			t.Fatalf("unexpected dispatch error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	saved := 0
	for _, id := range []domainbooking.ID{"BK-1001", "BK-1002"} {
		if _, err := f.bookings.ByID(ctx, id); err == nil {
			saved++
		}
	}
	assert.Equal(t, 1, saved, "exactly one booking may occupy the nights")
}

func TestTransitionInvalidState(t *testing.T) {
	f := newTransitionFixture(t)
	ctx := context.Background()
	id := f.request(t)

	_, err := commands.Dispatch[CheckInBookingCommand, *TransitionResult](ctx, f.bus, CheckInBookingCommand{BookingID: id})
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)

	_, err = commands.Dispatch[CompleteBookingCommand, *TransitionResult](ctx, f.bus, CompleteBookingCommand{BookingID: id})
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)
}

func TestTransitionUnknownBooking(t *testing.T) {
	f := newTransitionFixture(t)

	_, err := commands.Dispatch[ConfirmBookingCommand, *TransitionResult](context.Background(), f.bus, ConfirmBookingCommand{BookingID: "BK-ghost"})
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestTransitionRequiresUnitOfWork(t *testing.T) {
	h := &TransitionHandler{}
	_, err := h.Confirm(context.Background(), ConfirmBookingCommand{BookingID: "BK-1"})
	assert.Error(t, err)
}
