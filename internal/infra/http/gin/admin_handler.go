package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	villasapp "github.com/Ishaq74/tetouanluxury-sub001/internal/app/handlers/villas"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/infra/storage/s3"
)

// AdminHandler serves the villa CMS: catalog writes and photo uploads.
type AdminHandler struct {
	Commands commands.Bus
	Uploader s3.Uploader
	Logger   *slog.Logger
}

type villaRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	NightlyCents int64  `json:"nightly_cents"`
	Currency     string `json:"currency"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	MaxGuests    int    `json:"max_guests"`
	HasPool      bool   `json:"has_pool"`
}

func (r villaRequest) toInput() villasapp.VillaInput {
	return villasapp.VillaInput{
		Name:         r.Name,
		Description:  r.Description,
		NightlyCents: r.NightlyCents,
		Currency:     r.Currency,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		MaxGuests:    r.MaxGuests,
		HasPool:      r.HasPool,
	}
}

func (h AdminHandler) CreateVilla(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req villaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := villasapp.CreateVillaCommand{CommandID: uuid.NewString(), Input: req.toInput()}
	result, err := commands.Dispatch[villasapp.CreateVillaCommand, *villasapp.CreateVillaResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) UpdateVilla(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req villaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := villasapp.UpdateVillaCommand{VillaID: c.Param("id"), Input: req.toInput()}
	result, err := commands.Dispatch[villasapp.UpdateVillaCommand, *villasapp.AckResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) RetireVilla(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	cmd := villasapp.RetireVillaCommand{VillaID: c.Param("id")}
	result, err := commands.Dispatch[villasapp.RetireVillaCommand, *villasapp.AckResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPhoto streams the multipart file to object storage, then attaches
// the resulting URL to the villa.
func (h AdminHandler) UploadPhoto(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage unavailable"})
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
		return
	}
	defer src.Close()

	villaID := c.Param("id")
	key := s3.PhotoKey(villaID, uuid.NewString()+"-"+file.Filename)
	url, err := h.Uploader.Upload(c.Request.Context(), key, src, file.Header.Get("Content-Type"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("photo upload failed", "villa_id", villaID, "error", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}

	cmd := villasapp.AttachPhotoCommand{VillaID: villaID, PhotoURL: url}
	result, err := commands.Dispatch[villasapp.AttachPhotoCommand, *villasapp.AckResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"villa_id": result.VillaID, "photo_url": url})
}

var _ AdminHTTP = AdminHandler{}
