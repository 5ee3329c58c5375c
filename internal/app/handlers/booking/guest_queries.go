package booking

import (
	"context"
	"errors"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/dto"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
)

const (
	guestBookingsKey = "booking.guest_list"
	bookingDetailKey = "booking.guest_detail"
	accessCodeKey    = "booking.access_code"
)

// ErrNotYours guards guest-portal reads against other guests' bookings.
var ErrNotYours = errors.New("booking: not owned by requester")

type GuestBookingsQuery struct {
	GuestID string
}

func (q GuestBookingsQuery) Key() string { return guestBookingsKey }

type GuestBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *GuestBookingsHandler) Handle(ctx context.Context, q GuestBookingsQuery) (dto.BookingCollection, error) {
	unit, err := readUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	items, err := unit.Bookings().ListByGuest(ctx, q.GuestID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	out := dto.BookingCollection{Items: make([]dto.BookingSummary, 0, len(items))}
	for _, b := range items {
		v, _ := unit.Villas().ByID(ctx, b.VillaID)
		out.Items = append(out.Items, dto.MapBookingSummary(b, v))
	}
	return out, nil
}

type BookingDetailQuery struct {
	BookingID string
	GuestID   string
	Staff     bool
}

func (q BookingDetailQuery) Key() string { return bookingDetailKey }

type BookingDetailHandler struct {
	UoWFactory uow.Factory
}

// Handle returns one booking with its quote breakdown, guarded by ownership.
func (h *BookingDetailHandler) Handle(ctx context.Context, q BookingDetailQuery) (dto.BookingSummary, error) {
	unit, err := readUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingSummary{}, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(q.BookingID))
	if err != nil {
		return dto.BookingSummary{}, err
	}
	if !q.Staff && b.GuestID != q.GuestID {
		return dto.BookingSummary{}, ErrNotYours
	}
	v, _ := unit.Villas().ByID(ctx, b.VillaID)
	return dto.MapBookingSummary(b, v), nil
}

type AccessCodeQuery struct {
	BookingID string
	GuestID   string
	Staff     bool
}

func (q AccessCodeQuery) Key() string { return accessCodeKey }

type AccessCodeResult struct {
	BookingID string `json:"booking_id"`
	Code      string `json:"code"`
}

type AccessCodeHandler struct {
	UoWFactory uow.Factory
}

// Handle re-derives the door code from the booking identifier. The code is
// never stored; determinism of the derivation is what lets the portal show
// it again on demand.
func (h *AccessCodeHandler) Handle(ctx context.Context, q AccessCodeQuery) (AccessCodeResult, error) {
	unit, err := readUnit(ctx, h.UoWFactory)
	if err != nil {
		return AccessCodeResult{}, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(q.BookingID))
	if err != nil {
		return AccessCodeResult{}, err
	}
	if !q.Staff && b.GuestID != q.GuestID {
		return AccessCodeResult{}, ErrNotYours
	}
	return AccessCodeResult{
		BookingID: string(b.ID),
		Code:      domainbooking.AccessCode(b.ID),
	}, nil
}

func readUnit(ctx context.Context, factory uow.Factory) (uow.UnitOfWork, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, nil
	}
	if factory == nil {
		return nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

var (
	_ queries.Handler[GuestBookingsQuery, dto.BookingCollection] = (*GuestBookingsHandler)(nil)
	_ queries.Handler[BookingDetailQuery, dto.BookingSummary]    = (*BookingDetailHandler)(nil)
	_ queries.Handler[AccessCodeQuery, AccessCodeResult]         = (*AccessCodeHandler)(nil)
)
