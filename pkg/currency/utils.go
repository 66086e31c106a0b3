package currency

import (
	"fmt"
	"math/big"
)

// MulDivRound computes amount * num / den with banker's rounding (round
// half to even). Intermediate math uses big.Int so sats-times-cents
// products cannot overflow int64. Inputs must be non-negative and den
// must be positive; callers guard den at construction time.
func MulDivRound(amount, num, den int64) int64 {
	product := new(big.Int).Mul(big.NewInt(amount), big.NewInt(num))
	quo, rem := new(big.Int).QuoRem(product, big.NewInt(den), new(big.Int))

	twiceRem := new(big.Int).Lsh(rem, 1)
	switch twiceRem.Cmp(big.NewInt(den)) {
	case 1:
		quo.Add(quo, big.NewInt(1))
	case 0:
		// Halfway: round to the nearest even quotient.
		if quo.Bit(0) == 1 {
			quo.Add(quo, big.NewInt(1))
		}
	}

	return quo.Int64()
}

// CentsToDollars converts cents to dollars for display
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100.0
}

// FormatUSD formats cents as USD string
func FormatUSD(cents int64) string {
	return fmt.Sprintf("$%.2f", CentsToDollars(cents))
}
