package ledgerrepo

import (
	"context"
	"time"

	"github.com/tuncanbit/lnpay/internal/domain"
)

// ILedgerRepository aggregates a wallet's sent volume per transaction
// category over a rolling window. Volumes are read from a ledger other
// requests append to concurrently; callers accept that a snapshot may not
// yet include in-flight transfers.
type ILedgerRepository interface {
	IntraLedgerTxVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error)
	TradeIntraAccountTxVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error)
	ExternalPaymentVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error)
	AllPaymentVolumeSince(ctx context.Context, wallet domain.WalletDescriptor, since time.Time) (domain.WalletVolume, error)
}
