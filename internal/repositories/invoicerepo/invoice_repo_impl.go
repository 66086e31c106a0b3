package invoicerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/rs/zerolog"
	"github.com/sqlc-dev/pqtype"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type InvoiceRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *sql.DB, logger zerolog.Logger) IInvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger.With().Str("component", "invoice_repository").Logger(),
	}
}

func (r *InvoiceRepository) FindByPaymentHash(ctx context.Context, paymentHash lntypes.Hash) (*domain.WalletInvoice, error) {
	const query = `
		SELECT payment_hash, recipient_wallet_id, recipient_currency, pubkey,
		       paid, usd_amount_cents, metadata, created_at
		FROM wallet_invoices
		WHERE payment_hash = $1`

	var (
		hashHex        string
		walletID       uuid.UUID
		currency       string
		pubkey         string
		paid           bool
		usdAmountCents sql.NullInt64
		metadata       pqtype.NullRawMessage
		createdAt      time.Time
	)
	err := r.db.QueryRowContext(ctx, query, paymentHash.String()).Scan(
		&hashHex, &walletID, &currency, &pubkey, &paid, &usdAmountCents, &metadata, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("payment_hash", paymentHash.String()).Msg("Failed to query wallet invoice")
		return nil, fmt.Errorf("failed to query wallet invoice: %v", err)
	}

	hash, err := lntypes.MakeHashFromStr(hashHex)
	if err != nil {
		return nil, fmt.Errorf("invalid payment_hash in row: %v", err)
	}

	invoice := &domain.WalletInvoice{
		PaymentHash:       hash,
		RecipientWalletID: walletID.String(),
		RecipientCurrency: domain.WalletCurrency(currency),
		Pubkey:            domain.Pubkey(pubkey),
		Paid:              paid,
		CreatedAt:         createdAt,
	}
	if usdAmountCents.Valid {
		invoice.UsdAmount = &domain.UsdPaymentAmount{Cents: usdAmountCents.Int64}
	}
	if metadata.Valid {
		invoice.Metadata = metadata.RawMessage
	}

	return invoice, nil
}
