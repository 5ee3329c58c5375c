package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/events"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

var (
	ErrInvalidGuests  = errors.New("booking: guests count must be positive")
	ErrClientRequired = errors.New("booking: client name and email required")
	ErrInvalidState   = errors.New("booking: invalid state transition")
	ErrNotFound       = errors.New("booking: not found")
	ErrCheckInInPast  = errors.New("booking: check-in date is in the past")
)

type ID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking is one guest stay at a villa together with the quote that was
// current when the stay was requested.
type Booking struct {
	ID          ID
	VillaID     villa.ID
	GuestID     string
	ClientName  string
	ClientEmail string
	Range       daterange.StayRange
	Guests      int
	Quote       pricing.StayQuote
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByVilla(ctx context.Context, villaID villa.ID) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}

// ValidateCheckIn rejects stays that would start before today.
func ValidateCheckIn(r daterange.StayRange, now time.Time) error {
	if r.CheckIn.Before(daterange.Day(now)) {
		return ErrCheckInInPast
	}
	return nil
}

type CreateParams struct {
	ID          ID
	VillaID     villa.ID
	GuestID     string
	ClientName  string
	ClientEmail string
	Range       daterange.StayRange
	Guests      int
	Quote       pricing.StayQuote
	CreatedAt   time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id required")
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if strings.TrimSpace(params.ClientName) == "" || strings.TrimSpace(params.ClientEmail) == "" {
		return nil, ErrClientRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Quote.Nights != params.Range.Nights() {
		return nil, errors.New("booking: quote does not match the stay range")
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:          params.ID,
		VillaID:     params.VillaID,
		GuestID:     strings.TrimSpace(params.GuestID),
		ClientName:  strings.TrimSpace(params.ClientName),
		ClientEmail: strings.ToLower(strings.TrimSpace(params.ClientEmail)),
		Range:       params.Range,
		Guests:      params.Guests,
		Quote:       params.Quote,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(Requested{BookingID: b.ID, VillaID: b.VillaID, Range: b.Range, Guests: b.Guests, Total: b.Quote.Total, At: now})
	return b, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.touch(now)
	b.Record(Confirmed{BookingID: b.ID, VillaID: b.VillaID, Range: b.Range, Total: b.Quote.Total, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCheckedIn
	b.touch(now)
	b.Record(CheckedIn{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusCheckedIn {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.touch(now)
	b.Record(Completed{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed:
	default:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.touch(now)
	b.Record(Cancelled{BookingID: b.ID, VillaID: b.VillaID, Range: b.Range, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Blocks reports whether this booking occupies its dates: cancelled stays
// release them.
func (b *Booking) Blocks() bool {
	return b.Status != StatusCancelled
}

func (b *Booking) touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
