package walletrepo

import (
	"context"

	"github.com/tuncanbit/lnpay/internal/domain"
)

type IWalletRepository interface {
	// FindByID returns domain.ErrWalletNotFound when no wallet exists.
	FindByID(ctx context.Context, walletID string) (*domain.WalletDescriptor, error)
}
