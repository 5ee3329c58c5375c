package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/middleware"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/policies"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/availability"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainrange "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

const requestBookingKey = "booking.request"

// ErrDatesUnavailable is the normal rejection when the requested nights are
// already taken; callers surface it to the guest, never as a server fault.
var ErrDatesUnavailable = errors.New("booking: requested dates are unavailable")

type RequestBookingCommand struct {
	CommandID       string
	VillaID         string
	GuestID         string
	ClientName      string
	ClientEmail     string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string `json:"booking_id"`
}

type RequestBookingHandler struct {
	UoWFactory uow.Factory
	Pricing    policies.PricingPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// Handle quotes and persists a stay request. The availability check runs
// against the booking snapshot read inside the surrounding unit of work, so
// a conflicting commit between check and insert is serialized by the storage
// backend rather than raced.
func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.Bind(ctx, unit)
		managed = true
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	stay, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := domainbooking.ValidateCheckIn(stay, now); err != nil {
		return nil, err
	}

	v, err := unit.Villas().ByID(ctx, domainvilla.ID(cmd.VillaID))
	if err != nil {
		return nil, err
	}
	if err := v.EnsureBookable(cmd.Guests); err != nil {
		return nil, err
	}

	snapshot, err := unit.Bookings().ListByVilla(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	if !availability.RangeFree(snapshot, v.ID, stay, "") {
		return nil, ErrDatesUnavailable
	}

	quote, err := h.Pricing.Quote(ctx, v, stay, cmd.Guests)
	if err != nil {
		return nil, err
	}

	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:          domainbooking.ID(cmd.CommandID),
		VillaID:     v.ID,
		GuestID:     cmd.GuestID,
		ClientName:  cmd.ClientName,
		ClientEmail: cmd.ClientEmail,
		Range:       stay,
		Guests:      cmd.Guests,
		Quote:       quote,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{BookingID: string(b.ID)}, nil
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
