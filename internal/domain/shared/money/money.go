package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Money keeps amounts in integer minor units (cents/centimes) to avoid
// floating point issues. 100 minor units make one display unit.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts other from the receiver.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// Neg returns the negated amount preserving currency.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// ScaleBasisPoints applies a basis-point fraction (10000 bp = 100%) rounding
// half up: 1000 bp of 245000 minor units is exactly 24500.
func (m Money) ScaleBasisPoints(bp int64) Money {
	return Money{Amount: divRoundHalfUp(m.Amount*bp, 10_000), Currency: m.Currency}
}

// ScalePercent applies an integer percentage (140 = x1.4) rounding half up.
func (m Money) ScalePercent(percent int64) Money {
	return Money{Amount: divRoundHalfUp(m.Amount*percent, 100), Currency: m.Currency}
}

// RoundToUnit rounds the amount to the nearest whole display unit, half up.
// Grand totals shown to guests are rounded; components stay unrounded.
func (m Money) RoundToUnit() Money {
	return Money{Amount: divRoundHalfUp(m.Amount, 100) * 100, Currency: m.Currency}
}

// Units returns the amount expressed in whole display units, truncating.
func (m Money) Units() int64 {
	return m.Amount / 100
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// divRoundHalfUp divides rounding half up for non-negative numerators and
// half away from zero for negative ones.
func divRoundHalfUp(numerator, denominator int64) int64 {
	if numerator >= 0 {
		return (numerator + denominator/2) / denominator
	}
	return -((-numerator + denominator/2) / denominator)
}
