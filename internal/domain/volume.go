package domain

// WalletVolume is the total amount a wallet transacted in one category
// over the trailing 24-hour window, denominated in the wallet's currency:
// satoshis for BTC wallets, cents for USD wallets.
type WalletVolume struct {
	WalletID string
	Currency WalletCurrency
	Amount   int64
}

func (v WalletVolume) InUsd(ratio PriceRatio) UsdPaymentAmount {
	if v.Currency == WalletCurrencyBtc {
		return ratio.ConvertFromBtc(BtcPaymentAmount{Sats: v.Amount})
	}
	return UsdPaymentAmount{Cents: v.Amount}
}
