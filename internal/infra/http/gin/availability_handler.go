package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/dto"
	availabilityapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/availability"
	villasapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/villas"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

// Calendar serves the date-picker view. Defaults to the next 90 days when
// the window is omitted.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	detail, err := queries.Ask[villasapp.DetailQuery, dto.VillaDetail](c.Request.Context(), h.Queries, villasapp.DetailQuery{Slug: c.Param("slug")})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}

	from, ok := dateQuery(c, "from", time.Now())
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to", from.AddDate(0, 3, 0))
	if !ok {
		return
	}

	q := availabilityapp.GetCalendarQuery{VillaID: detail.ID, From: from, To: to}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " date, want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
