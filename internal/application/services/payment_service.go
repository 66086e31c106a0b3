package services

import (
	"context"

	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/internal/domain/models"
)

type IPaymentFlowService interface {
	// CreatePaymentIntent validates a payment end to end: decode, build
	// the flow, derive the limits price ratio and run every applicable
	// limit check. Business rejections come back in the response status;
	// only infrastructure failures are returned as errors.
	CreatePaymentIntent(ctx context.Context, req *models.PaymentIntentRequest) (*models.PaymentIntentResponse, error)

	// ConstructPaymentFlow runs the stepwise builder for one payment
	// request. uncheckedAmount is only consulted for no-amount invoices
	// and is denominated in the sender wallet's currency.
	ConstructPaymentFlow(ctx context.Context, senderWallet domain.WalletDescriptor, invoice domain.LnInvoice, uncheckedAmount int64) (*domain.PaymentFlow, error)

	// PriceRatioForLimits derives the ratio limit checks evaluate with,
	// flooring tiny flows to a reference amount to keep the ratio stable.
	PriceRatioForLimits(ctx context.Context, flow *domain.PaymentFlow) (domain.PriceRatio, error)

	CheckIntraLedgerLimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error
	CheckTradeIntraAccountLimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error
	CheckWithdrawalLimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error
	CheckTwoFALimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error
}
