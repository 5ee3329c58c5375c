package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/dto"
	villasapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/villas"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/queries"
)

type VillaHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h VillaHandler) Catalog(c *gin.Context) {
	q := villasapp.CatalogQuery{
		MinGuests:    intQuery(c, "guests"),
		MaxRateCents: int64Query(c, "max_rate_cents"),
		PoolOnly:     c.Query("pool") == "true",
	}
	result, err := queries.Ask[villasapp.CatalogQuery, villasapp.CatalogResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VillaHandler) Detail(c *gin.Context) {
	q := villasapp.DetailQuery{Slug: c.Param("slug")}
	result, err := queries.Ask[villasapp.DetailQuery, dto.VillaDetail](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func intQuery(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

func int64Query(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return v
}

var _ VillaHTTP = VillaHandler{}
