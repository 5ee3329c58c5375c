package availability

import (
	"context"
	"errors"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/dto"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	domainavailability "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/availability"
	domainrange "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

const getCalendarKey = "availability.calendar"

var ErrWindowTooLarge = errors.New("availability: calendar window exceeds one year")

type GetCalendarQuery struct {
	VillaID string
	From    time.Time
	To      time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.Factory
}

// Handle classifies every day of the visible window as booked or free using
// the same overlap rule the booking flow applies, so the date picker and the
// availability check can never disagree.
func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Calendar{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Calendar{}, err
		}
		ctx = uow.Bind(ctx, unit)
		defer unit.Rollback(ctx)
	}

	from := domainrange.Day(q.From)
	to := domainrange.Day(q.To)
	if !to.After(from) {
		return dto.Calendar{}, domainrange.ErrInvalidRange
	}
	if to.Sub(from) > 366*24*time.Hour {
		return dto.Calendar{}, ErrWindowTooLarge
	}

	villaID := domainvilla.ID(q.VillaID)
	if _, err := unit.Villas().ByID(ctx, villaID); err != nil {
		return dto.Calendar{}, err
	}
	snapshot, err := unit.Bookings().ListByVilla(ctx, villaID)
	if err != nil {
		return dto.Calendar{}, err
	}

	cal := dto.Calendar{VillaID: q.VillaID, From: from, To: to}
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		cal.Days = append(cal.Days, dto.CalendarDay{
			Day:    day,
			Booked: domainavailability.DayBooked(snapshot, villaID, day),
		})
	}
	return cal, nil
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
