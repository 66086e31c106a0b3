package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceRatio(t *testing.T) {
	t.Run("rejects zero usd side", func(t *testing.T) {
		_, err := NewPriceRatio(UsdPaymentAmount{Cents: 0}, BtcPaymentAmount{Sats: 1000})
		assert.ErrorIs(t, err, ErrInvalidZeroAmountPriceRatioInput)
	})

	t.Run("rejects zero btc side", func(t *testing.T) {
		_, err := NewPriceRatio(UsdPaymentAmount{Cents: 100}, BtcPaymentAmount{Sats: 0})
		assert.ErrorIs(t, err, ErrInvalidZeroAmountPriceRatioInput)
	})

	t.Run("accepts a positive pair", func(t *testing.T) {
		ratio, err := NewPriceRatio(UsdPaymentAmount{Cents: 2000}, BtcPaymentAmount{Sats: 50_000})
		require.NoError(t, err)
		assert.InDelta(t, 0.0004, ratio.UsdPerSat(), 1e-12)
	})
}

func TestPriceRatioConversions(t *testing.T) {
	// 50,000 sats worth $20.00, i.e. 2500 sats per cent.
	ratio, err := NewPriceRatio(UsdPaymentAmount{Cents: 2000}, BtcPaymentAmount{Sats: 50_000})
	require.NoError(t, err)

	t.Run("usd to btc", func(t *testing.T) {
		btc := ratio.ConvertFromUsd(UsdPaymentAmount{Cents: 100})
		assert.Equal(t, int64(2500), btc.Sats)
	})

	t.Run("btc to usd", func(t *testing.T) {
		usd := ratio.ConvertFromBtc(BtcPaymentAmount{Sats: 25_000})
		assert.Equal(t, int64(1000), usd.Cents)
	})

	t.Run("zero converts to zero", func(t *testing.T) {
		assert.True(t, ratio.ConvertFromUsd(UsdPaymentAmount{}).IsZero())
		assert.True(t, ratio.ConvertFromBtc(BtcPaymentAmount{}).IsZero())
	})

	t.Run("positive sats never round to zero cents", func(t *testing.T) {
		usd := ratio.ConvertFromBtc(BtcPaymentAmount{Sats: 1})
		assert.Equal(t, int64(1), usd.Cents)
	})

	t.Run("positive cents never round to zero sats", func(t *testing.T) {
		// 1 cent at 0.4 sats per cent would truncate to zero.
		tiny, err := NewPriceRatio(UsdPaymentAmount{Cents: 1000}, BtcPaymentAmount{Sats: 400})
		require.NoError(t, err)
		btc := tiny.ConvertFromUsd(UsdPaymentAmount{Cents: 1})
		assert.Equal(t, int64(1), btc.Sats)
	})

	t.Run("round trip stays within one unit", func(t *testing.T) {
		for _, cents := range []int64{1, 7, 99, 1234, 99999} {
			back := ratio.ConvertFromBtc(ratio.ConvertFromUsd(UsdPaymentAmount{Cents: cents}))
			assert.InDelta(t, cents, back.Cents, 1)
		}
	})
}
