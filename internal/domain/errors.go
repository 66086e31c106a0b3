package domain

import "errors"

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrAccountNotFound = errors.New("account not found")

	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")

	// ErrInvoiceMissingAmount is returned when an amount step is attempted
	// with an invoice that carries no amount of its own.
	ErrInvoiceMissingAmount = errors.New("invoice does not specify an amount")

	// ErrInvalidUncheckedAmount is returned when the caller-supplied amount
	// for a no-amount invoice is not a positive integer.
	ErrInvalidUncheckedAmount = errors.New("unchecked amount must be positive")

	ErrSelfPayment = errors.New("sender and recipient wallets are the same")

	// ErrInvalidZeroAmountPriceRatioInput guards price ratio construction:
	// neither side of the amount pair may be zero.
	ErrInvalidZeroAmountPriceRatioInput = errors.New("invalid zero amount price ratio input")

	// ErrZeroAmountForUsdRecipient replaces the generic zero-amount ratio
	// failure when an intraledger payment would credit a USD wallet with
	// nothing.
	ErrZeroAmountForUsdRecipient = errors.New("zero amount for usd recipient")

	ErrNegativePaymentAmount = errors.New("payment amount cannot be negative")
)
