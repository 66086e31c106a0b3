package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type AccountRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *sql.DB, logger zerolog.Logger) IAccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger.With().Str("component", "account_repository").Logger(),
	}
}

func (r *AccountRepository) FindByID(ctx context.Context, accountID string) (*domain.Account, error) {
	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account_id format: %v", err)
	}

	const query = `
		SELECT id, level, username
		FROM accounts
		WHERE id = $1`

	var (
		id       uuid.UUID
		level    int
		username sql.NullString
	)
	err = r.db.QueryRowContext(ctx, query, accountUUID).Scan(&id, &level, &username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("account_id", accountID).Msg("Failed to query account")
		return nil, fmt.Errorf("failed to query account: %v", err)
	}

	return &domain.Account{
		ID:       id.String(),
		Level:    domain.AccountLevel(level),
		Username: username.String,
	}, nil
}
