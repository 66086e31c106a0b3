package domain

import (
	"encoding/json"
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
)

// LnInvoice is the decoded subset of a BOLT11 payment request the payment
// flow needs. AmountSats is zero for no-amount invoices.
type LnInvoice struct {
	PaymentHash    lntypes.Hash
	Destination    Pubkey
	AmountSats     int64
	PaymentRequest string
	ExpiresAt      time.Time
}

// WalletInvoice is an invoice issued by one of our own wallets, looked up
// by payment hash when a payment destination resolves internally.
type WalletInvoice struct {
	PaymentHash       lntypes.Hash
	RecipientWalletID string
	RecipientCurrency WalletCurrency
	Pubkey            Pubkey
	Paid              bool
	// UsdAmount is the preset dollar amount attached at invoice creation
	// for USD-denominated recipients, if any.
	UsdAmount *UsdPaymentAmount
	Metadata  json.RawMessage
	CreatedAt time.Time
}

// RecipientDetails is the fully resolved recipient of an intraledger
// payment: invoice recipient wallet, its owning account and username.
type RecipientDetails struct {
	WalletID  string
	Currency  WalletCurrency
	AccountID string
	Pubkey    Pubkey
	UsdAmount *UsdPaymentAmount
	Username  string
}
