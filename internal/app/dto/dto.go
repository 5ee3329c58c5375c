package dto

import (
	"time"

	domainbooking "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/booking"
	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
	domainuser "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/user"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

type StayQuoteDTO struct {
	Nights      int      `json:"nights"`
	Subtotal    MoneyDTO `json:"subtotal"`
	Discount    MoneyDTO `json:"discount"`
	CleaningFee MoneyDTO `json:"cleaning_fee"`
	Tax         MoneyDTO `json:"tax"`
	Total       MoneyDTO `json:"total"`
	LongStay    bool     `json:"long_stay"`
}

func MapStayQuote(q domainpricing.StayQuote) StayQuoteDTO {
	return StayQuoteDTO{
		Nights:      q.Nights,
		Subtotal:    MapMoney(q.Subtotal),
		Discount:    MapMoney(q.Discount),
		CleaningFee: MapMoney(q.CleaningFee),
		Tax:         MapMoney(q.Tax),
		Total:       MapMoney(q.Total),
		LongStay:    q.LongStay,
	}
}

type VillaSummary struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	NightlyRate MoneyDTO `json:"nightly_rate"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	MaxGuests   int      `json:"max_guests"`
	HasPool     bool     `json:"has_pool"`
	Available   bool     `json:"available"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

type VillaDetail struct {
	VillaSummary
	Description string   `json:"description"`
	PhotoURLs   []string `json:"photo_urls"`
}

func MapVillaSummary(v *domainvilla.Villa) VillaSummary {
	summary := VillaSummary{
		ID:          string(v.ID),
		Slug:        v.Slug,
		Name:        v.Name,
		NightlyRate: MapMoney(v.NightlyRate),
		Bedrooms:    v.Bedrooms,
		Bathrooms:   v.Bathrooms,
		MaxGuests:   v.MaxGuests,
		HasPool:     v.HasPool,
		Available:   v.Available,
	}
	if len(v.PhotoURLs) > 0 {
		summary.Thumbnail = v.PhotoURLs[0]
	}
	return summary
}

func MapVillaDetail(v *domainvilla.Villa) VillaDetail {
	return VillaDetail{
		VillaSummary: MapVillaSummary(v),
		Description:  v.Description,
		PhotoURLs:    append([]string(nil), v.PhotoURLs...),
	}
}

type BookingSummary struct {
	ID          string       `json:"id"`
	VillaID     string       `json:"villa_id"`
	VillaName   string       `json:"villa_name,omitempty"`
	ClientName  string       `json:"client_name"`
	ClientEmail string       `json:"client_email"`
	CheckIn     time.Time    `json:"check_in"`
	CheckOut    time.Time    `json:"check_out"`
	Guests      int          `json:"guests"`
	Status      string       `json:"status"`
	Quote       StayQuoteDTO `json:"quote"`
	CreatedAt   time.Time    `json:"created_at"`
}

func MapBookingSummary(b *domainbooking.Booking, v *domainvilla.Villa) BookingSummary {
	summary := BookingSummary{
		ID:          string(b.ID),
		VillaID:     string(b.VillaID),
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		CheckIn:     b.Range.CheckIn,
		CheckOut:    b.Range.CheckOut,
		Guests:      b.Guests,
		Status:      string(b.Status),
		Quote:       MapStayQuote(b.Quote),
		CreatedAt:   b.CreatedAt,
	}
	if v != nil {
		summary.VillaName = v.Name
	}
	return summary
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

func NewAuthResponse(u *domainuser.User, token string) AuthResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	return AuthResponse{
		User: UserProfile{
			ID:        string(u.ID),
			Email:     u.Email,
			Name:      u.Name,
			Roles:     roles,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		Token: token,
	}
}

// CalendarDay carries the per-day classification the date picker renders.
type CalendarDay struct {
	Day    time.Time `json:"day"`
	Booked bool      `json:"booked"`
}

type Calendar struct {
	VillaID string        `json:"villa_id"`
	From    time.Time     `json:"from"`
	To      time.Time     `json:"to"`
	Days    []CalendarDay `json:"days"`
}
