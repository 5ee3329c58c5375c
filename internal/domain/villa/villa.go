package villa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/events"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
)

var (
	ErrIDRequired     = errors.New("villa: id is required")
	ErrNameRequired   = errors.New("villa: name is required")
	ErrInvalidRate    = errors.New("villa: nightly rate must be positive")
	ErrInvalidGuests  = errors.New("villa: max guests must be positive")
	ErrNotFound       = errors.New("villa: not found")
	ErrNotBookable    = errors.New("villa: not currently bookable")
	ErrAlreadyRetired = errors.New("villa: already retired")
)

type ID string

// Villa is the rentable property record managed through the admin surface
// and read by the booking flow.
type Villa struct {
	ID          ID
	Slug        string
	Name        string
	Description string
	NightlyRate money.Money
	Bedrooms    int
	Bathrooms   int
	MaxGuests   int
	HasPool     bool
	Available   bool
	PhotoURLs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Villa, error)
	BySlug(ctx context.Context, slug string) (*Villa, error)
	List(ctx context.Context, filter ListFilter) ([]*Villa, error)
	Save(ctx context.Context, v *Villa) error
	Delete(ctx context.Context, id ID) error
}

// ListFilter narrows catalog listings. Zero values mean "no constraint".
type ListFilter struct {
	OnlyAvailable bool
	MinGuests     int
	MaxRateCents  int64
	PoolOnly      bool
}

type CreateParams struct {
	ID          ID
	Slug        string
	Name        string
	Description string
	NightlyRate money.Money
	Bedrooms    int
	Bathrooms   int
	MaxGuests   int
	HasPool     bool
	PhotoURLs   []string
	Now         time.Time
}

func New(params CreateParams) (*Villa, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.NightlyRate.Amount <= 0 || params.NightlyRate.Currency == "" {
		return nil, ErrInvalidRate
	}
	if params.MaxGuests <= 0 {
		return nil, ErrInvalidGuests
	}
	slug := strings.TrimSpace(params.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	v := &Villa{
		ID:          ID(id),
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		NightlyRate: params.NightlyRate,
		Bedrooms:    params.Bedrooms,
		Bathrooms:   params.Bathrooms,
		MaxGuests:   params.MaxGuests,
		HasPool:     params.HasPool,
		Available:   true,
		PhotoURLs:   append([]string(nil), params.PhotoURLs...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.Record(Created{VillaID: v.ID, Name: v.Name, At: now})
	return v, nil
}

type UpdateParams struct {
	Name        string
	Description string
	NightlyRate money.Money
	Bedrooms    int
	Bathrooms   int
	MaxGuests   int
	HasPool     bool
}

func (v *Villa) Update(params UpdateParams, now time.Time) error {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return ErrNameRequired
	}
	if params.NightlyRate.Amount <= 0 || params.NightlyRate.Currency == "" {
		return ErrInvalidRate
	}
	if params.MaxGuests <= 0 {
		return ErrInvalidGuests
	}
	v.Name = name
	v.Description = strings.TrimSpace(params.Description)
	v.NightlyRate = params.NightlyRate
	v.Bedrooms = params.Bedrooms
	v.Bathrooms = params.Bathrooms
	v.MaxGuests = params.MaxGuests
	v.HasPool = params.HasPool
	v.touch(now)
	v.Record(Updated{VillaID: v.ID, At: v.UpdatedAt})
	return nil
}

// Retire takes the villa off the public catalog; existing bookings stay valid.
func (v *Villa) Retire(now time.Time) error {
	if !v.Available {
		return ErrAlreadyRetired
	}
	v.Available = false
	v.touch(now)
	v.Record(Retired{VillaID: v.ID, At: v.UpdatedAt})
	return nil
}

func (v *Villa) Reinstate(now time.Time) {
	if v.Available {
		return
	}
	v.Available = true
	v.touch(now)
}

func (v *Villa) AttachPhoto(url string, now time.Time) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("villa: photo url required")
	}
	for _, existing := range v.PhotoURLs {
		if existing == url {
			return nil
		}
	}
	v.PhotoURLs = append(v.PhotoURLs, url)
	v.touch(now)
	return nil
}

// EnsureBookable rejects bookings against retired villas or oversized parties.
func (v *Villa) EnsureBookable(guests int) error {
	if !v.Available {
		return ErrNotBookable
	}
	if guests > v.MaxGuests {
		return ErrInvalidGuests
	}
	return nil
}

func (v *Villa) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	v.UpdatedAt = now.UTC()
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
