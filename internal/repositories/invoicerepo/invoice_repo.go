package invoicerepo

import (
	"context"

	"github.com/lightningnetwork/lnd/lntypes"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type IInvoiceRepository interface {
	// FindByPaymentHash returns domain.ErrInvoiceNotFound when the hash
	// does not belong to one of our own invoices.
	FindByPaymentHash(ctx context.Context, paymentHash lntypes.Hash) (*domain.WalletInvoice, error)
}
