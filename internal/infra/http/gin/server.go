package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/config"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/obs"
)

type VillaHTTP interface {
	Catalog(c *gin.Context)
	Detail(c *gin.Context)
}

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Confirm(c *gin.Context)
	CheckIn(c *gin.Context)
	Complete(c *gin.Context)
	Cancel(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
	BookingDetail(c *gin.Context)
	AccessCode(c *gin.Context)
}

type AdminHTTP interface {
	CreateVilla(c *gin.Context)
	UpdateVilla(c *gin.Context)
	RetireVilla(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type Handlers struct {
	Villa          VillaHTTP
	Availability   AvailabilityHTTP
	Booking        BookingHTTP
	Me             MeHTTP
	Admin          AdminHTTP
	Auth           AuthHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Villa != nil {
		api.GET("/villas", h.Villa.Catalog)
		api.GET("/villas/:slug", h.Villa.Detail)
	}
	if h.Availability != nil {
		api.GET("/villas/:slug/calendar", h.Availability.Calendar)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/check-in", h.Booking.CheckIn)
		api.POST("/bookings/:id/complete", h.Booking.Complete)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
		meGroup.GET("/bookings/:id", h.Me.BookingDetail)
		meGroup.GET("/bookings/:id/access-code", h.Me.AccessCode)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin/villas")
		adminGroup.POST("", h.Admin.CreateVilla)
		adminGroup.PUT("/:id", h.Admin.UpdateVilla)
		adminGroup.POST("/:id/retire", h.Admin.RetireVilla)
		adminGroup.POST("/:id/photos", h.Admin.UploadPhoto)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
