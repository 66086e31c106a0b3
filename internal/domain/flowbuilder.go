package domain

import (
	"context"
	"time"
)

// ConversionFns are the price-oracle calls the conversion step uses to
// populate whichever side of the amount pair the request did not fix.
type ConversionFns struct {
	UsdFromBtc func(ctx context.Context, amount BtcPaymentAmount) (UsdPaymentAmount, error)
	BtcFromUsd func(ctx context.Context, amount UsdPaymentAmount) (BtcPaymentAmount, error)
}

type FlowBuilderConfig struct {
	LocalNodePubkeys []Pubkey
	FlaggedPubkeys   []Pubkey
}

// FlowBuilder assembles a PaymentFlow step by step. Each step returns a
// distinct type exposing only the operations legal at that stage, so steps
// cannot be skipped or reordered. Any failing step aborts the flow.
type FlowBuilder struct {
	localNodePubkeys map[Pubkey]struct{}
	flaggedPubkeys   map[Pubkey]struct{}
}

func NewFlowBuilder(cfg FlowBuilderConfig) *FlowBuilder {
	local := make(map[Pubkey]struct{}, len(cfg.LocalNodePubkeys))
	for _, pk := range cfg.LocalNodePubkeys {
		local[pk] = struct{}{}
	}
	flagged := make(map[Pubkey]struct{}, len(cfg.FlaggedPubkeys))
	for _, pk := range cfg.FlaggedPubkeys {
		flagged[pk] = struct{}{}
	}
	return &FlowBuilder{
		localNodePubkeys: local,
		flaggedPubkeys:   flagged,
	}
}

// WithInvoice starts a flow for an invoice that carries its own amount.
func (b *FlowBuilder) WithInvoice(invoice LnInvoice) (*FlowBuilderWithInvoice, error) {
	if invoice.AmountSats <= 0 {
		return nil, ErrInvoiceMissingAmount
	}
	btc := BtcPaymentAmount{Sats: invoice.AmountSats}
	return &FlowBuilderWithInvoice{
		builder:     b,
		invoice:     invoice,
		btcProposed: &btc,
	}, nil
}

// WithNoAmountInvoice starts a flow for a zero-amount invoice, attaching
// the caller-supplied amount. The amount is denominated in the sender
// wallet's currency and is resolved at the sender-wallet step.
func (b *FlowBuilder) WithNoAmountInvoice(invoice LnInvoice, uncheckedAmount int64) (*FlowBuilderWithInvoice, error) {
	if uncheckedAmount <= 0 {
		return nil, ErrInvalidUncheckedAmount
	}
	return &FlowBuilderWithInvoice{
		builder:         b,
		invoice:         invoice,
		uncheckedAmount: uncheckedAmount,
	}, nil
}

type FlowBuilderWithInvoice struct {
	builder         *FlowBuilder
	invoice         LnInvoice
	uncheckedAmount int64
	btcProposed     *BtcPaymentAmount
}

// WithSenderWallet decides the intraledger branch exactly once, by testing
// the invoice destination against the local-node pubkey set, and pins any
// unchecked amount to the sender's currency.
func (b *FlowBuilderWithInvoice) WithSenderWallet(sender WalletDescriptor) *FlowBuilderWithSenderWallet {
	next := &FlowBuilderWithSenderWallet{
		builder:     b.builder,
		invoice:     b.invoice,
		sender:      sender,
		btcProposed: b.btcProposed,
	}

	_, next.isIntraLedger = b.builder.localNodePubkeys[b.invoice.Destination]
	_, next.skipProbe = b.builder.flaggedPubkeys[b.invoice.Destination]

	if b.uncheckedAmount > 0 {
		if sender.Currency == WalletCurrencyBtc {
			next.btcProposed = &BtcPaymentAmount{Sats: b.uncheckedAmount}
		} else {
			next.usdProposed = &UsdPaymentAmount{Cents: b.uncheckedAmount}
		}
	}

	return next
}

type FlowBuilderWithSenderWallet struct {
	builder       *FlowBuilder
	invoice       LnInvoice
	sender        WalletDescriptor
	isIntraLedger bool
	skipProbe     bool
	btcProposed   *BtcPaymentAmount
	usdProposed   *UsdPaymentAmount
}

func (b *FlowBuilderWithSenderWallet) IsIntraLedger() bool {
	return b.isIntraLedger
}

// WithRecipientWallet attaches the resolved recipient of an intraledger
// payment. A preset USD amount on the invoice fixes the usd side of the
// pair for USD-denominated recipients.
func (b *FlowBuilderWithSenderWallet) WithRecipientWallet(details RecipientDetails) (*FlowBuilderWithRecipient, error) {
	if details.WalletID == b.sender.ID {
		return nil, ErrSelfPayment
	}

	recipient := &WalletDescriptor{
		ID:        details.WalletID,
		Currency:  details.Currency,
		AccountID: details.AccountID,
	}

	usdProposed := b.usdProposed
	if details.Currency == WalletCurrencyUsd && details.UsdAmount != nil {
		amount := *details.UsdAmount
		usdProposed = &amount
	}

	return &FlowBuilderWithRecipient{
		builder:           b.builder,
		invoice:           b.invoice,
		sender:            b.sender,
		recipient:         recipient,
		recipientUsername: details.Username,
		isIntraLedger:     b.isIntraLedger,
		skipProbe:         b.skipProbe,
		btcProposed:       b.btcProposed,
		usdProposed:       usdProposed,
	}, nil
}

// WithoutRecipientWallet advances an external payment; no recipient
// lookups were performed and none are recorded.
func (b *FlowBuilderWithSenderWallet) WithoutRecipientWallet() *FlowBuilderWithRecipient {
	return &FlowBuilderWithRecipient{
		builder:       b.builder,
		invoice:       b.invoice,
		sender:        b.sender,
		isIntraLedger: b.isIntraLedger,
		skipProbe:     b.skipProbe,
		btcProposed:   b.btcProposed,
		usdProposed:   b.usdProposed,
	}
}

type FlowBuilderWithRecipient struct {
	builder           *FlowBuilder
	invoice           LnInvoice
	sender            WalletDescriptor
	recipient         *WalletDescriptor
	recipientUsername string
	isIntraLedger     bool
	skipProbe         bool
	btcProposed       *BtcPaymentAmount
	usdProposed       *UsdPaymentAmount
}

// WithConversion is the terminal step. It performs the only external price
// lookups of the flow, populating whichever amount the request did not
// already fix, and validates the resulting pair.
func (b *FlowBuilderWithRecipient) WithConversion(ctx context.Context, convert ConversionFns) (*PaymentFlow, error) {
	var (
		btc BtcPaymentAmount
		usd UsdPaymentAmount
		err error
	)

	switch {
	case b.btcProposed != nil && b.usdProposed != nil:
		btc, usd = *b.btcProposed, *b.usdProposed
	case b.btcProposed != nil:
		btc = *b.btcProposed
		usd, err = convert.UsdFromBtc(ctx, btc)
		if err != nil {
			return nil, err
		}
	default:
		usd = *b.usdProposed
		btc, err = convert.BtcFromUsd(ctx, usd)
		if err != nil {
			return nil, err
		}
	}

	// The pair must form a valid price ratio; a zero side means the
	// payment converts to nothing in one of the two currencies.
	if _, err := NewPriceRatio(usd, btc); err != nil {
		if b.isIntraLedger && b.recipient != nil && b.recipient.Currency == WalletCurrencyUsd {
			return nil, ErrZeroAmountForUsdRecipient
		}
		return nil, err
	}

	return &PaymentFlow{
		SenderWalletDescriptor:    b.sender,
		RecipientWalletDescriptor: b.recipient,
		RecipientUsername:         b.recipientUsername,
		PaymentHash:               b.invoice.PaymentHash,
		Destination:               b.invoice.Destination,
		IsIntraLedger:             b.isIntraLedger,
		SkipProbe:                 b.skipProbe,
		BtcPaymentAmount:          btc,
		UsdPaymentAmount:          usd,
		CreatedAt:                 time.Now(),
	}, nil
}
