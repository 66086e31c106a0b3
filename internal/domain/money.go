package domain

type WalletCurrency string

const (
	WalletCurrencyBtc WalletCurrency = "BTC"
	WalletCurrencyUsd WalletCurrency = "USD"
)

// BtcPaymentAmount is a bitcoin amount denominated in satoshis.
type BtcPaymentAmount struct {
	Sats int64
}

// UsdPaymentAmount is a dollar amount denominated in cents.
type UsdPaymentAmount struct {
	Cents int64
}

func NewBtcPaymentAmount(sats int64) (BtcPaymentAmount, error) {
	if sats < 0 {
		return BtcPaymentAmount{}, ErrNegativePaymentAmount
	}
	return BtcPaymentAmount{Sats: sats}, nil
}

func NewUsdPaymentAmount(cents int64) (UsdPaymentAmount, error) {
	if cents < 0 {
		return UsdPaymentAmount{}, ErrNegativePaymentAmount
	}
	return UsdPaymentAmount{Cents: cents}, nil
}

func (a BtcPaymentAmount) IsZero() bool {
	return a.Sats == 0
}

func (a UsdPaymentAmount) IsZero() bool {
	return a.Cents == 0
}
