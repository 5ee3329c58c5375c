package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

// ErrConcurrentUpdate mirrors the Mongo repositories: a Save with a stale
// version loses.
var ErrConcurrentUpdate = errors.New("storage: concurrent update")

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[booking.ID]*booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[booking.ID]*booking.Booking)}
}

func (r *BookingRepository) ByID(_ context.Context, id booking.ID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.bookings[b.ID]
	if exists && current.Version != b.Version {
		return ErrConcurrentUpdate
	}
	saved := cloneBooking(b)
	saved.Version++
	r.bookings[b.ID] = saved
	b.Version = saved.Version
	return nil
}

func (r *BookingRepository) ListByVilla(_ context.Context, villaID villa.ID) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.VillaID == villaID {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByGuest(_ context.Context, guestID string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.GuestID == guestID {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func sortBookings(list []*booking.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Range.CheckIn.Equal(list[j].Range.CheckIn) {
			return list[i].Range.CheckIn.Before(list[j].Range.CheckIn)
		}
		return list[i].ID < list[j].ID
	})
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	out := *b
	out.ClearEvents()
	return &out
}

var _ booking.Repository = (*BookingRepository)(nil)
