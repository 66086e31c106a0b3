package domain

import (
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
)

// PaymentFlow is the validated, currency-aware description of one payment
// attempt. It is owned by the single in-flight request that built it and
// is never persisted. RecipientWalletDescriptor is non-nil exactly when
// IsIntraLedger is true.
type PaymentFlow struct {
	SenderWalletDescriptor    WalletDescriptor
	RecipientWalletDescriptor *WalletDescriptor
	RecipientUsername         string

	PaymentHash   lntypes.Hash
	Destination   Pubkey
	IsIntraLedger bool
	SkipProbe     bool

	BtcPaymentAmount BtcPaymentAmount
	UsdPaymentAmount UsdPaymentAmount

	CreatedAt time.Time
}
