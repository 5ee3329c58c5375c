package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/availability"
	bookingapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/booking"
	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainrange "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

// respondDomainError maps domain and application errors onto HTTP statuses.
// Anything unmapped is a server fault and gets logged before the generic 500.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domainvilla.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrDatesUnavailable),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrNotYours):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrClientRequired),
		errors.Is(err, domainvilla.ErrInvalidGuests),
		errors.Is(err, domainvilla.ErrInvalidRate),
		errors.Is(err, domainvilla.ErrNameRequired),
		errors.Is(err, domainvilla.ErrNotBookable),
		errors.Is(err, domainvilla.ErrAlreadyRetired),
		errors.Is(err, domainpricing.ErrInvalidRange),
		errors.Is(err, availabilityapp.ErrWindowTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
