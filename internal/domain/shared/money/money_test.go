package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(35000, "mad")
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 35000, Currency: "MAD"}, m)

	_, err = New(100, "dirham")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestArithmeticRequiresSameCurrency(t *testing.T) {
	mad := Must(100_00, "MAD")
	eur := Must(100_00, "EUR")

	_, err := mad.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = mad.Sub(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err := mad.Add(Must(50_00, "MAD"))
	require.NoError(t, err)
	assert.Equal(t, int64(150_00), sum.Amount)
}

func TestScalePercent(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		percent int64
		want    int64
	}{
		{"base rate", 30000, 100, 30000},
		{"peak multiplier", 30000, 140, 42000},
		{"shoulder multiplier", 35000, 120, 42000},
		{"rounds half up", 333, 150, 500}, // 499.5 -> 500
		{"zero", 0, 140, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money{Amount: tt.amount, Currency: "MAD"}.ScalePercent(tt.percent)
			assert.Equal(t, tt.want, got.Amount)
		})
	}
}

func TestScaleBasisPoints(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		bp     int64
		want   int64
	}{
		{"ten percent exact", 245000, 1_000, 24500},
		{"full amount", 245000, 10_000, 245000},
		{"rounds half up", 105, 1_000, 11}, // 10.5 -> 11
		{"zero bp", 245000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money{Amount: tt.amount, Currency: "MAD"}.ScaleBasisPoints(tt.bp)
			assert.Equal(t, tt.want, got.Amount)
		})
	}
}

func TestRoundToUnit(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"rounds up from half", 250550, 250600},
		{"rounds down below half", 250549, 250500},
		{"already whole", 120200, 120200},
		{"negative rounds away from zero", -150, -200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money{Amount: tt.amount, Currency: "MAD"}.RoundToUnit()
			assert.Equal(t, tt.want, got.Amount)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "2506.00 MAD", Must(250600, "MAD").String())
	assert.Equal(t, "-1.50 MAD", Must(-150, "MAD").String())
	assert.Equal(t, "0.05 MAD", Must(5, "MAD").String())
}

func TestUnits(t *testing.T) {
	assert.Equal(t, int64(2506), Must(250600, "MAD").Units())
	assert.Equal(t, int64(2505), Must(250550, "MAD").Units())
}
