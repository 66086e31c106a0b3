package domain

import (
	"fmt"

	"github.com/tuncanbit/lnpay/pkg/currency"
)

// AccountLimits are the per-tier daily caps in USD cents.
type AccountLimits struct {
	IntraLedgerCents       int64
	TradeIntraAccountCents int64
	WithdrawalCents        int64
}

// TwoFALimits is the global cap on all payment volume above which
// additional authentication is required.
type TwoFALimits struct {
	ThresholdCents int64
}

type limitExceeded struct {
	name           string
	LimitCents     int64
	RemainingCents int64
}

func (e limitExceeded) Error() string {
	return fmt.Sprintf("%s daily limit exceeded: %s remaining of %s",
		e.name, currency.FormatUSD(e.RemainingCents), currency.FormatUSD(e.LimitCents))
}

func (e limitExceeded) RemainingUsdCents() int64 {
	return e.RemainingCents
}

// LimitExceededError is satisfied by all four limit error kinds, letting
// callers surface the remaining allowance without caring which cap was
// hit.
type LimitExceededError interface {
	error
	RemainingUsdCents() int64
}

// One error kind per limit check so callers can tell which cap was hit.
type IntraLedgerLimitExceededError struct{ limitExceeded }
type TradeIntraAccountLimitExceededError struct{ limitExceeded }
type WithdrawalLimitExceededError struct{ limitExceeded }
type TwoFALimitExceededError struct{ limitExceeded }

// evaluateLimit normalizes the prior volume to USD via the price ratio and
// allows the payment when volume + requested stays within the cap. The
// returned remaining is the exact shortfall cap - volume, reported to the
// caller on rejection.
func evaluateLimit(requested UsdPaymentAmount, volume WalletVolume, capCents int64, ratio PriceRatio) (remainingCents int64, ok bool) {
	volumeCents := volume.InUsd(ratio).Cents
	remainingCents = capCents - volumeCents
	return remainingCents, requested.Cents <= remainingCents
}

// AccountLimitsChecker runs the three account-tier checks against one
// wallet's rolling-window volume.
type AccountLimitsChecker struct {
	Limits     AccountLimits
	PriceRatio PriceRatio
}

func NewAccountLimitsChecker(limits AccountLimits, ratio PriceRatio) AccountLimitsChecker {
	return AccountLimitsChecker{Limits: limits, PriceRatio: ratio}
}

func (c AccountLimitsChecker) CheckIntraLedger(amount UsdPaymentAmount, volume WalletVolume) error {
	remaining, ok := evaluateLimit(amount, volume, c.Limits.IntraLedgerCents, c.PriceRatio)
	if !ok {
		return &IntraLedgerLimitExceededError{limitExceeded{
			name:           "intraledger",
			LimitCents:     c.Limits.IntraLedgerCents,
			RemainingCents: remaining,
		}}
	}
	return nil
}

func (c AccountLimitsChecker) CheckTradeIntraAccount(amount UsdPaymentAmount, volume WalletVolume) error {
	remaining, ok := evaluateLimit(amount, volume, c.Limits.TradeIntraAccountCents, c.PriceRatio)
	if !ok {
		return &TradeIntraAccountLimitExceededError{limitExceeded{
			name:           "trade intra-account",
			LimitCents:     c.Limits.TradeIntraAccountCents,
			RemainingCents: remaining,
		}}
	}
	return nil
}

func (c AccountLimitsChecker) CheckWithdrawal(amount UsdPaymentAmount, volume WalletVolume) error {
	remaining, ok := evaluateLimit(amount, volume, c.Limits.WithdrawalCents, c.PriceRatio)
	if !ok {
		return &WithdrawalLimitExceededError{limitExceeded{
			name:           "withdrawal",
			LimitCents:     c.Limits.WithdrawalCents,
			RemainingCents: remaining,
		}}
	}
	return nil
}

// TwoFALimitsChecker runs the global two-factor check against a wallet's
// all-category payment volume.
type TwoFALimitsChecker struct {
	Limits     TwoFALimits
	PriceRatio PriceRatio
}

func NewTwoFALimitsChecker(limits TwoFALimits, ratio PriceRatio) TwoFALimitsChecker {
	return TwoFALimitsChecker{Limits: limits, PriceRatio: ratio}
}

func (c TwoFALimitsChecker) CheckTwoFA(amount UsdPaymentAmount, volume WalletVolume) error {
	remaining, ok := evaluateLimit(amount, volume, c.Limits.ThresholdCents, c.PriceRatio)
	if !ok {
		return &TwoFALimitExceededError{limitExceeded{
			name:           "two-factor",
			LimitCents:     c.Limits.ThresholdCents,
			RemainingCents: remaining,
		}}
	}
	return nil
}
