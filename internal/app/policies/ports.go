package policies

import (
	"context"

	domainpricing "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/pricing"
	domainrange "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	domainvilla "github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

// PricingPort exposes the stay calculator to application handlers.
type PricingPort interface {
	Quote(ctx context.Context, v *domainvilla.Villa, r domainrange.StayRange, guests int) (domainpricing.StayQuote, error)
}

// CalculatorAdapter bridges the domain calculator into the port.
type CalculatorAdapter struct {
	Calculator domainpricing.Calculator
}

func (a CalculatorAdapter) Quote(ctx context.Context, v *domainvilla.Villa, r domainrange.StayRange, guests int) (domainpricing.StayQuote, error) {
	return a.Calculator.Quote(ctx, domainpricing.QuoteInput{Villa: v, Range: r, Guests: guests})
}

var _ PricingPort = CalculatorAdapter{}

// NotifierPort delivers guest-facing notifications. Rendering and transport
// live outside this service; adapters may simply log in local runs.
type NotifierPort interface {
	BookingConfirmed(ctx context.Context, email, bookingID string) error
	BookingCancelled(ctx context.Context, email, bookingID string) error
}
