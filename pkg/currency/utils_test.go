package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulDivRound(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		num      int64
		den      int64
		expected int64
	}{
		{"exact division", 100, 3, 4, 75},
		{"rounds down below half", 100, 1, 3, 33},
		{"rounds up above half", 200, 1, 3, 67},
		{"half rounds to even down", 1, 5, 10, 0},
		{"half rounds to even up", 3, 5, 10, 2},
		{"half rounds to even from odd quotient", 35, 1, 10, 4},
		{"half rounds to even stays on even quotient", 45, 1, 10, 4},
		{"zero amount", 0, 7, 13, 0},
		{"identity ratio", 123456, 1, 1, 123456},
		{"sats times cents does not overflow", 2_100_000_000_000_000, 10_000_000, 100_000_000, 210_000_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MulDivRound(tt.amount, tt.num, tt.den))
		})
	}
}

func TestCentsToDollars(t *testing.T) {
	assert.Equal(t, 0.01, CentsToDollars(1))
	assert.Equal(t, 1234.56, CentsToDollars(123456))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00", FormatUSD(0))
	assert.Equal(t, "$20.00", FormatUSD(2000))
	assert.Equal(t, "$1234.56", FormatUSD(123456))
}
