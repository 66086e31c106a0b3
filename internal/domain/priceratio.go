package domain

import (
	"github.com/tuncanbit/lnpay/pkg/currency"
)

// PriceRatio is a fixed USD/BTC exchange rate derived from a matched
// amount pair. Conversions round half to even; a positive input never
// rounds down to nothing.
type PriceRatio struct {
	usd UsdPaymentAmount
	btc BtcPaymentAmount
}

func NewPriceRatio(usd UsdPaymentAmount, btc BtcPaymentAmount) (PriceRatio, error) {
	if usd.IsZero() || btc.IsZero() {
		return PriceRatio{}, ErrInvalidZeroAmountPriceRatioInput
	}
	return PriceRatio{usd: usd, btc: btc}, nil
}

func (r PriceRatio) ConvertFromUsd(usd UsdPaymentAmount) BtcPaymentAmount {
	sats := currency.MulDivRound(usd.Cents, r.btc.Sats, r.usd.Cents)
	if sats == 0 && usd.Cents > 0 {
		sats = 1
	}
	return BtcPaymentAmount{Sats: sats}
}

func (r PriceRatio) ConvertFromBtc(btc BtcPaymentAmount) UsdPaymentAmount {
	cents := currency.MulDivRound(btc.Sats, r.usd.Cents, r.btc.Sats)
	if cents == 0 && btc.Sats > 0 {
		cents = 1
	}
	return UsdPaymentAmount{Cents: cents}
}

// UsdPerSat reports the rate for logging and display only; conversions
// never go through floating point.
func (r PriceRatio) UsdPerSat() float64 {
	return float64(r.usd.Cents) / 100 / float64(r.btc.Sats)
}
