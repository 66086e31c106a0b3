package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/tuncanbit/lnpay/internal/domain"
)

// Ledger transaction categories for sent volume aggregation.
const (
	categoryIntraLedgerSend       = "intraledger_send"
	categoryTradeIntraAccountSend = "trade_intra_account_send"
	categoryExternalPaymentSend   = "external_payment_send"
)

var allPaymentCategories = []string{
	categoryIntraLedgerSend,
	categoryTradeIntraAccountSend,
	categoryExternalPaymentSend,
}

type LedgerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *sql.DB, logger zerolog.Logger) ILedgerRepository {
	return &LedgerRepository{
		db:     db,
		logger: logger.With().Str("component", "ledger_repository").Logger(),
	}
}

func (r *LedgerRepository) IntraLedgerTxVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error) {
	return r.volumeSince(ctx, wallet, since, categoryIntraLedgerSend)
}

func (r *LedgerRepository) TradeIntraAccountTxVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error) {
	return r.volumeSince(ctx, wallet, since, categoryTradeIntraAccountSend)
}

func (r *LedgerRepository) ExternalPaymentVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error) {
	return r.volumeSince(ctx, wallet, since, categoryExternalPaymentSend)
}

func (r *LedgerRepository) AllPaymentVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error) {
	return r.volumeSince(ctx, wallet, since, allPaymentCategories...)
}

func (r *LedgerRepository) volumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time, categories ...string) (domain.WalletVolume, error) {
	walletUUID, err := uuid.Parse(wallet.ID)
	if err != nil {
		return domain.WalletVolume{}, fmt.Errorf("invalid wallet_id format: %v", err)
	}

	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE wallet_id = $1
		  AND side = 'debit'
		  AND category = ANY($2)
		  AND created_at >= $3`

	var amount int64
	err = r.db.QueryRowContext(ctx, query, walletUUID, pq.Array(categories), since).Scan(&amount)
	if err != nil {
		r.logger.Err(err).
			Str("wallet_id", wallet.ID).
			Strs("categories", categories).
			Time("since", since).
			Msg("Failed to aggregate ledger volume")
		return domain.WalletVolume{}, fmt.Errorf("failed to aggregate ledger volume: %v", err)
	}

	return domain.WalletVolume{
		WalletID: wallet.ID,
		Currency: wallet.Currency,
		Amount:   amount,
	}, nil
}
