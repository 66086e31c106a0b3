package accountrepo

import (
	"context"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type IAccountRepository interface {
	// FindByID returns domain.ErrAccountNotFound when no account exists.
	FindByID(ctx context.Context, accountID string) (*domain.Account, error)
}
