package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/policies"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
)

const (
	confirmBookingKey  = "booking.confirm"
	checkInBookingKey  = "booking.check_in"
	completeBookingKey = "booking.complete"
	cancelBookingKey   = "booking.cancel"
)

type ConfirmBookingCommand struct {
	BookingID string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type CheckInBookingCommand struct {
	BookingID string
}

func (c CheckInBookingCommand) Key() string { return checkInBookingKey }

type CompleteBookingCommand struct {
	BookingID string
}

func (c CompleteBookingCommand) Key() string { return completeBookingKey }

type CancelBookingCommand struct {
	BookingID string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type TransitionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// TransitionHandler applies staff-driven state changes to a booking.
type TransitionHandler struct {
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Notifier policies.NotifierPort
	Now      func() time.Time
}

func (h *TransitionHandler) Confirm(ctx context.Context, cmd ConfirmBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, func(b *domainbooking.Booking, now time.Time) error {
		if err := b.Confirm(now); err != nil {
			return err
		}
		if h.Notifier != nil {
			return h.Notifier.BookingConfirmed(ctx, b.ClientEmail, string(b.ID))
		}
		return nil
	})
}

func (h *TransitionHandler) CheckIn(ctx context.Context, cmd CheckInBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, func(b *domainbooking.Booking, now time.Time) error {
		return b.CheckIn(now)
	})
}

func (h *TransitionHandler) Complete(ctx context.Context, cmd CompleteBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, func(b *domainbooking.Booking, now time.Time) error {
		return b.Complete(now)
	})
}

func (h *TransitionHandler) Cancel(ctx context.Context, cmd CancelBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, func(b *domainbooking.Booking, now time.Time) error {
		if err := b.Cancel(cmd.Reason, now); err != nil {
			return err
		}
		if h.Notifier != nil {
			return h.Notifier.BookingCancelled(ctx, b.ClientEmail, string(b.ID))
		}
		return nil
	})
}

func (h *TransitionHandler) apply(ctx context.Context, id string, fn func(*domainbooking.Booking, time.Time) error) (*TransitionResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, errors.Join(uow.ErrUnitOfWorkMissing, ErrUnitOfWorkRequired)
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(id))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	if err := fn(b, now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	pending := b.PendingEvents()
	b.ClearEvents()
	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoder, pending); err != nil {
		return nil, err
	}
	return &TransitionResult{BookingID: string(b.ID), Status: string(b.Status)}, nil
}

// Typed adapters so each command key registers its own handler on the bus.

type confirmAdapter struct{ h *TransitionHandler }

func (a confirmAdapter) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*TransitionResult, error) {
	return a.h.Confirm(ctx, cmd)
}

type checkInAdapter struct{ h *TransitionHandler }

func (a checkInAdapter) Handle(ctx context.Context, cmd CheckInBookingCommand) (*TransitionResult, error) {
	return a.h.CheckIn(ctx, cmd)
}

type completeAdapter struct{ h *TransitionHandler }

func (a completeAdapter) Handle(ctx context.Context, cmd CompleteBookingCommand) (*TransitionResult, error) {
	return a.h.Complete(ctx, cmd)
}

type cancelAdapter struct{ h *TransitionHandler }

func (a cancelAdapter) Handle(ctx context.Context, cmd CancelBookingCommand) (*TransitionResult, error) {
	return a.h.Cancel(ctx, cmd)
}

// RegisterTransitions wires all four staff transitions onto the bus.
func RegisterTransitions(bus *commands.InMemoryBus, h *TransitionHandler) {
	commands.Register(bus, confirmBookingKey, confirmAdapter{h})
	commands.Register(bus, checkInBookingKey, checkInAdapter{h})
	commands.Register(bus, completeBookingKey, completeAdapter{h})
	commands.Register(bus, cancelBookingKey, cancelAdapter{h})
}
