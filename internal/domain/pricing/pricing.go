package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/daterange"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/villa"
)

var (
	ErrInvalidRange = errors.New("pricing: stay must cover at least one night")
	ErrVillaMissing = errors.New("pricing: villa required")
)

// StayQuote is the full monetary breakdown for one stay. It is produced
// fresh on every call and never persisted by the calculator itself; the
// booking aggregate snapshots it at request time.
type StayQuote struct {
	Nights      int
	Subtotal    money.Money
	Discount    money.Money
	CleaningFee money.Money
	Tax         money.Money
	Total       money.Money
	LongStay    bool
}

type QuoteInput struct {
	Villa  *villa.Villa
	Range  daterange.StayRange
	Guests int
}

// Calculator quotes a stay. Implementations must be pure: no I/O, no
// internal state, safe for concurrent use.
type Calculator interface {
	Quote(ctx context.Context, input QuoteInput) (StayQuote, error)
}

// SeasonalCalculator prices stays from a validated RatePolicy.
type SeasonalCalculator struct {
	Policy RatePolicy
}

func NewSeasonalCalculator(policy RatePolicy) *SeasonalCalculator {
	return &SeasonalCalculator{Policy: policy}
}

// Quote walks each night of the stay, applies the month's seasonal
// multiplier to the villa's base rate and accumulates the subtotal, then
// layers the long-stay discount, tax on (subtotal - discount) and the flat
// cleaning fee. The cleaning fee is deliberately untaxed. The grand total
// is rounded to the nearest whole currency unit, half up; every other
// component stays in exact minor units.
func (c *SeasonalCalculator) Quote(_ context.Context, input QuoteInput) (StayQuote, error) {
	if input.Villa == nil {
		return StayQuote{}, ErrVillaMissing
	}
	nights := input.Range.Nights()
	if nights <= 0 {
		return StayQuote{}, ErrInvalidRange
	}

	base := input.Villa.NightlyRate
	subtotal := money.Money{Currency: base.Currency}
	input.Range.EachNight(func(night time.Time) {
		nightly := base.ScalePercent(c.Policy.RatePercentFor(night))
		subtotal, _ = subtotal.Add(nightly)
	})

	quote := StayQuote{
		Nights:      nights,
		Subtotal:    subtotal,
		Discount:    money.Money{Currency: base.Currency},
		CleaningFee: c.Policy.CleaningFee,
		LongStay:    nights >= c.Policy.LongStayNights,
	}
	if quote.LongStay {
		quote.Discount = subtotal.ScaleBasisPoints(c.Policy.LongStayDiscountBP)
	}

	taxable, err := subtotal.Sub(quote.Discount)
	if err != nil {
		return StayQuote{}, err
	}
	quote.Tax = taxable.ScaleBasisPoints(c.Policy.TaxBP)

	total := taxable
	if total, err = total.Add(quote.CleaningFee); err != nil {
		return StayQuote{}, err
	}
	if total, err = total.Add(quote.Tax); err != nil {
		return StayQuote{}, err
	}
	quote.Total = total.RoundToUnit()
	return quote, nil
}

var _ Calculator = (*SeasonalCalculator)(nil)
