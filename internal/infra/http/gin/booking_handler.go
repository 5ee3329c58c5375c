package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	bookingapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	VillaID     string    `json:"villa_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Guests      int       `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clientName := req.ClientName
	if clientName == "" {
		clientName = p.Name
	}
	clientEmail := req.ClientEmail
	if clientEmail == "" {
		clientEmail = p.Email
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       generateCommandID(),
		VillaID:         req.VillaID,
		GuestID:         p.ID,
		ClientName:      clientName,
		ClientEmail:     clientEmail,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, func(id string) commands.Command {
		return bookingapp.ConfirmBookingCommand{BookingID: id}
	})
}

func (h BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, func(id string) commands.Command {
		return bookingapp.CheckInBookingCommand{BookingID: id}
	})
}

func (h BookingHandler) Complete(c *gin.Context) {
	h.transition(c, func(id string) commands.Command {
		return bookingapp.CompleteBookingCommand{BookingID: id}
	})
}

func (h BookingHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)
	h.transition(c, func(id string) commands.Command {
		return bookingapp.CancelBookingCommand{BookingID: id, Reason: req.Reason}
	})
}

// transition runs a staff-only state change command against the path booking.
func (h BookingHandler) transition(c *gin.Context, build func(id string) commands.Command) {
	if _, ok := requireRole(c, "staff"); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	result, err := h.Commands.Dispatch(c.Request.Context(), build(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
