package villas

import (
	"context"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/commands"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/outbox"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/app/uow"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

const (
	createVillaKey = "villas.create"
	updateVillaKey = "villas.update"
	retireVillaKey = "villas.retire"
	attachPhotoKey = "villas.attach_photo"
)

type VillaInput struct {
	Name         string
	Description  string
	NightlyCents int64
	Currency     string
	Bedrooms     int
	Bathrooms    int
	MaxGuests    int
	HasPool      bool
}

type CreateVillaCommand struct {
	CommandID string
	Input     VillaInput
}

func (c CreateVillaCommand) Key() string { return createVillaKey }

type CreateVillaResult struct {
	VillaID string `json:"villa_id"`
	Slug    string `json:"slug"`
}

type UpdateVillaCommand struct {
	VillaID string
	Input   VillaInput
}

func (c UpdateVillaCommand) Key() string { return updateVillaKey }

type RetireVillaCommand struct {
	VillaID string
}

func (c RetireVillaCommand) Key() string { return retireVillaKey }

type AttachPhotoCommand struct {
	VillaID  string
	PhotoURL string
}

func (c AttachPhotoCommand) Key() string { return attachPhotoKey }

type AckResult struct {
	VillaID string `json:"villa_id"`
}

// ManageHandler serves the admin catalog surface.
type ManageHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *ManageHandler) Create(ctx context.Context, cmd CreateVillaCommand) (*CreateVillaResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	rate, err := money.New(cmd.Input.NightlyCents, cmd.Input.Currency)
	if err != nil {
		return nil, err
	}
	v, err := domainvilla.New(domainvilla.CreateParams{
		ID:          domainvilla.ID(cmd.CommandID),
		Name:        cmd.Input.Name,
		Description: cmd.Input.Description,
		NightlyRate: rate,
		Bedrooms:    cmd.Input.Bedrooms,
		Bathrooms:   cmd.Input.Bathrooms,
		MaxGuests:   cmd.Input.MaxGuests,
		HasPool:     cmd.Input.HasPool,
		Now:         h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := h.save(ctx, unit, v); err != nil {
		return nil, err
	}
	return &CreateVillaResult{VillaID: string(v.ID), Slug: v.Slug}, nil
}

func (h *ManageHandler) Update(ctx context.Context, cmd UpdateVillaCommand) (*AckResult, error) {
	return h.mutate(ctx, cmd.VillaID, func(v *domainvilla.Villa) error {
		rate, err := money.New(cmd.Input.NightlyCents, cmd.Input.Currency)
		if err != nil {
			return err
		}
		return v.Update(domainvilla.UpdateParams{
			Name:        cmd.Input.Name,
			Description: cmd.Input.Description,
			NightlyRate: rate,
			Bedrooms:    cmd.Input.Bedrooms,
			Bathrooms:   cmd.Input.Bathrooms,
			MaxGuests:   cmd.Input.MaxGuests,
			HasPool:     cmd.Input.HasPool,
		}, h.now())
	})
}

func (h *ManageHandler) Retire(ctx context.Context, cmd RetireVillaCommand) (*AckResult, error) {
	return h.mutate(ctx, cmd.VillaID, func(v *domainvilla.Villa) error {
		return v.Retire(h.now())
	})
}

func (h *ManageHandler) AttachPhoto(ctx context.Context, cmd AttachPhotoCommand) (*AckResult, error) {
	return h.mutate(ctx, cmd.VillaID, func(v *domainvilla.Villa) error {
		return v.AttachPhoto(cmd.PhotoURL, h.now())
	})
}

func (h *ManageHandler) mutate(ctx context.Context, id string, fn func(*domainvilla.Villa) error) (*AckResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	v, err := unit.Villas().ByID(ctx, domainvilla.ID(id))
	if err != nil {
		return nil, err
	}
	if err := fn(v); err != nil {
		return nil, err
	}
	if err := h.save(ctx, unit, v); err != nil {
		return nil, err
	}
	return &AckResult{VillaID: string(v.ID)}, nil
}

func (h *ManageHandler) save(ctx context.Context, unit uow.UnitOfWork, v *domainvilla.Villa) error {
	if err := unit.Villas().Save(ctx, v); err != nil {
		return err
	}
	pending := v.PendingEvents()
	v.ClearEvents()
	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	return outbox.RecordDomainEvents(ctx, h.Outbox, encoder, pending)
}

func (h *ManageHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

type createAdapter struct{ h *ManageHandler }

func (a createAdapter) Handle(ctx context.Context, cmd CreateVillaCommand) (*CreateVillaResult, error) {
	return a.h.Create(ctx, cmd)
}

type updateAdapter struct{ h *ManageHandler }

func (a updateAdapter) Handle(ctx context.Context, cmd UpdateVillaCommand) (*AckResult, error) {
	return a.h.Update(ctx, cmd)
}

type retireAdapter struct{ h *ManageHandler }

func (a retireAdapter) Handle(ctx context.Context, cmd RetireVillaCommand) (*AckResult, error) {
	return a.h.Retire(ctx, cmd)
}

type attachPhotoAdapter struct{ h *ManageHandler }

func (a attachPhotoAdapter) Handle(ctx context.Context, cmd AttachPhotoCommand) (*AckResult, error) {
	return a.h.AttachPhoto(ctx, cmd)
}

// RegisterManagement wires the admin commands onto the bus.
func RegisterManagement(bus *commands.InMemoryBus, h *ManageHandler) {
	commands.Register(bus, createVillaKey, createAdapter{h})
	commands.Register(bus, updateVillaKey, updateAdapter{h})
	commands.Register(bus, retireVillaKey, retireAdapter{h})
	commands.Register(bus, attachPhotoKey, attachPhotoAdapter{h})
}
