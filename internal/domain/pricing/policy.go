package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ishaq74/tetouanluxury-sub001/internal/domain/shared/money"
)

var (
	ErrBadSeasonBands = errors.New("pricing: season bands must partition the twelve months")
	ErrBadRate        = errors.New("pricing: rates must not be negative")
	ErrBadThreshold   = errors.New("pricing: long-stay threshold must be positive")
)

// SeasonBand groups calendar months under one rate multiplier, expressed as
// an integer percentage of the villa's base nightly rate (140 = x1.4).
type SeasonBand struct {
	Name        string
	Months      []time.Month
	RatePercent int64
}

// RatePolicy is the immutable pricing configuration. Build it once with
// NewRatePolicy (which validates it) and pass it by value; per-quote calls
// never mutate it.
type RatePolicy struct {
	Bands              []SeasonBand
	LongStayNights     int
	LongStayDiscountBP int64
	CleaningFee        money.Money
	TaxBP              int64

	byMonth [13]int64
}

// NewRatePolicy validates the configuration once so quote calls can assume
// a well-formed policy: bands must cover each of the twelve months exactly
// once, rates must be non-negative, the threshold positive.
func NewRatePolicy(bands []SeasonBand, longStayNights int, longStayDiscountBP int64, cleaningFee money.Money, taxBP int64) (RatePolicy, error) {
	p := RatePolicy{
		Bands:              bands,
		LongStayNights:     longStayNights,
		LongStayDiscountBP: longStayDiscountBP,
		CleaningFee:        cleaningFee,
		TaxBP:              taxBP,
	}
	if longStayNights <= 0 {
		return RatePolicy{}, ErrBadThreshold
	}
	if longStayDiscountBP < 0 || taxBP < 0 || cleaningFee.Amount < 0 {
		return RatePolicy{}, ErrBadRate
	}
	if cleaningFee.Currency == "" {
		return RatePolicy{}, money.ErrInvalidCurrency
	}
	seen := [13]bool{}
	for _, band := range bands {
		if band.RatePercent < 0 {
			return RatePolicy{}, fmt.Errorf("%w: band %q", ErrBadRate, band.Name)
		}
		for _, m := range band.Months {
			if m < time.January || m > time.December {
				return RatePolicy{}, fmt.Errorf("%w: band %q names month %d", ErrBadSeasonBands, band.Name, m)
			}
			if seen[m] {
				return RatePolicy{}, fmt.Errorf("%w: month %s assigned twice", ErrBadSeasonBands, m)
			}
			seen[m] = true
			p.byMonth[m] = band.RatePercent
		}
	}
	for m := time.January; m <= time.December; m++ {
		if !seen[m] {
			return RatePolicy{}, fmt.Errorf("%w: month %s unassigned", ErrBadSeasonBands, m)
		}
	}
	return p, nil
}

// DefaultPolicy mirrors the published rate card: July/August peak at x1.4,
// June/September shoulder at x1.2, the rest of the year at base rate,
// a 10% discount from the seventh night, an 80-unit cleaning fee and 10% tax.
func DefaultPolicy(currency string) RatePolicy {
	p, err := NewRatePolicy(
		[]SeasonBand{
			{Name: "peak", Months: []time.Month{time.July, time.August}, RatePercent: 140},
			{Name: "shoulder", Months: []time.Month{time.June, time.September}, RatePercent: 120},
			{Name: "base", Months: []time.Month{
				time.January, time.February, time.March, time.April, time.May,
				time.October, time.November, time.December,
			}, RatePercent: 100},
		},
		7,
		1_000,
		money.Must(80_00, currency),
		1_000,
	)
	if err != nil {
		panic(err)
	}
	return p
}

// RatePercentFor returns the seasonal multiplier for the month of the given night.
func (p RatePolicy) RatePercentFor(night time.Time) int64 {
	return p.byMonth[night.UTC().Month()]
}
