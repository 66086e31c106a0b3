package walletrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type WalletRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *sql.DB, logger zerolog.Logger) IWalletRepository {
	return &WalletRepository{
		db:     db,
		logger: logger.With().Str("component", "wallet_repository").Logger(),
	}
}

func (r *WalletRepository) FindByID(ctx context.Context, walletID string) (*domain.WalletDescriptor, error) {
	walletUUID, err := uuid.Parse(walletID)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet_id format: %v", err)
	}

	const query = `
		SELECT id, currency, account_id
		FROM wallets
		WHERE id = $1`

	var (
		id        uuid.UUID
		currency  string
		accountID uuid.UUID
	)
	err = r.db.QueryRowContext(ctx, query, walletUUID).Scan(&id, &currency, &accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("wallet_id", walletID).Msg("Failed to query wallet")
		return nil, fmt.Errorf("failed to query wallet: %v", err)
	}

	return &domain.WalletDescriptor{
		ID:        id.String(),
		Currency:  domain.WalletCurrency(currency),
		AccountID: accountID.String(),
	}, nil
}
