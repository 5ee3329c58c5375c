package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/dto"
	bookingapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/booking"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
)

// MeHandler is the guest portal: own bookings and door codes only, unless
// the caller holds the staff role.
type MeHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h MeHandler) ListBookings(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := bookingapp.GuestBookingsQuery{GuestID: p.ID}
	result, err := queries.Ask[bookingapp.GuestBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) BookingDetail(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := bookingapp.BookingDetailQuery{
		BookingID: c.Param("id"),
		GuestID:   p.ID,
		Staff:     p.HasRole("staff"),
	}
	result, err := queries.Ask[bookingapp.BookingDetailQuery, dto.BookingSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) AccessCode(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	q := bookingapp.AccessCodeQuery{
		BookingID: c.Param("id"),
		GuestID:   p.ID,
		Staff:     p.HasRole("staff"),
	}
	result, err := queries.Ask[bookingapp.AccessCodeQuery, bookingapp.AccessCodeResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
