package interfaces

import (
	"context"

	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/internal/domain/models"
)

// NodeClient exposes the lightning node facts the payment flow needs.
type NodeClient interface {
	// ListLocalPubkeys returns the identity pubkeys of our own nodes. A
	// failure here aborts flow construction before any lookup runs.
	ListLocalPubkeys(ctx context.Context) ([]domain.Pubkey, error)

	// FlaggedPubkeysToSkipProbe is configuration, not a network call.
	FlaggedPubkeysToSkipProbe() []domain.Pubkey

	// DecodeInvoice parses a BOLT11 payment request.
	DecodeInvoice(paymentRequest string) (*domain.LnInvoice, error)
}

// PriceOracle converts between the two denominations at the current
// market price.
type PriceOracle interface {
	UsdFromBtc(ctx context.Context, amount domain.BtcPaymentAmount) (domain.UsdPaymentAmount, error)
	BtcFromUsd(ctx context.Context, amount domain.UsdPaymentAmount) (domain.BtcPaymentAmount, error)
}

// WebSocketManager broadcasts payment status updates to subscribed
// clients.
type WebSocketManager interface {
	AddClient(client WebSocketClient) error
	RemoveClient(clientID string) error
	Broadcast(message *models.StatusUpdate) error
	SendToClient(clientID string, message *models.StatusUpdate) error
	GetClientCount() int
}

type WebSocketClient interface {
	GetID() string
	Send(message *models.StatusUpdate) error
	Close() error
	IsActive() bool
	HandleConnection()
}
