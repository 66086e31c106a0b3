package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/internal/domain/interfaces"
	"github.com/tuncanbit/lnpay/internal/domain/models"
	"github.com/tuncanbit/lnpay/internal/repositories/accountrepo"
	"github.com/tuncanbit/lnpay/internal/repositories/invoicerepo"
	"github.com/tuncanbit/lnpay/internal/repositories/ledgerrepo"
	"github.com/tuncanbit/lnpay/internal/repositories/walletrepo"
	"github.com/tuncanbit/lnpay/pkg/config"
	"github.com/tuncanbit/lnpay/pkg/currency"
)

const oneDay = 24 * time.Hour

type paymentFlowService struct {
	walletRepo  walletrepo.IWalletRepository
	accountRepo accountrepo.IAccountRepository
	invoiceRepo invoicerepo.IInvoiceRepository
	ledgerRepo  ledgerrepo.ILedgerRepository
	nodeClient  interfaces.NodeClient
	priceOracle interfaces.PriceOracle
	limitsCfg   config.LimitsConfig
	logger      zerolog.Logger
}

func NewPaymentFlowService(
	walletRepo walletrepo.IWalletRepository,
	accountRepo accountrepo.IAccountRepository,
	invoiceRepo invoicerepo.IInvoiceRepository,
	ledgerRepo ledgerrepo.ILedgerRepository,
	nodeClient interfaces.NodeClient,
	priceOracle interfaces.PriceOracle,
	limitsCfg config.LimitsConfig,
	logger zerolog.Logger,
) IPaymentFlowService {
	return &paymentFlowService{
		walletRepo:  walletRepo,
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
		ledgerRepo:  ledgerRepo,
		nodeClient:  nodeClient,
		priceOracle: priceOracle,
		limitsCfg:   limitsCfg,
		logger:      logger.With().Str("component", "payment_flow_service").Logger(),
	}
}

func (s *paymentFlowService) CreatePaymentIntent(ctx context.Context, req *models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	startTime := time.Now()
	requestID := uuid.New().String()

	s.logger.Info().
		Str("request_id", requestID).
		Str("wallet_id", req.WalletID).
		Msg("Starting payment intent validation")

	senderWallet, err := s.walletRepo.FindByID(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.nodeClient.DecodeInvoice(req.PaymentRequest)
	if err != nil {
		return rejectedResponse(requestID, startTime, err.Error()), nil
	}

	var uncheckedAmount int64
	if invoice.AmountSats == 0 {
		if senderWallet.Currency == domain.WalletCurrencyBtc {
			uncheckedAmount = req.AmountSats
		} else {
			uncheckedAmount = req.AmountUsdCents
		}
	}

	flow, err := s.ConstructPaymentFlow(ctx, *senderWallet, *invoice, uncheckedAmount)
	if err != nil {
		if isBusinessRejection(err) {
			s.logger.Info().
				Str("request_id", requestID).
				Str("payment_hash", invoice.PaymentHash.String()).
				Err(err).
				Msg("Payment intent rejected")
			return rejectedResponse(requestID, startTime, err.Error()), nil
		}
		return nil, err
	}

	ratio, err := s.PriceRatioForLimits(ctx, flow)
	if err != nil {
		return nil, err
	}

	if err := s.runLimitChecks(ctx, flow, ratio); err != nil {
		var limitErr domain.LimitExceededError
		if errors.As(err, &limitErr) {
			remaining := limitErr.RemainingUsdCents()
			s.logger.Info().
				Str("request_id", requestID).
				Str("payment_hash", flow.PaymentHash.String()).
				Int64("remaining_usd_cents", remaining).
				Msg("Payment intent exceeds volume limit")

			resp := rejectedResponse(requestID, startTime, limitErr.Error())
			resp.Status = models.IntentStatusLimitExceeded
			resp.RemainingUsdCents = &remaining
			return resp, nil
		}
		return nil, err
	}

	s.logger.Info().
		Str("request_id", requestID).
		Str("payment_hash", flow.PaymentHash.String()).
		Bool("intra_ledger", flow.IsIntraLedger).
		Int64("amount_sats", flow.BtcPaymentAmount.Sats).
		Int64("amount_usd_cents", flow.UsdPaymentAmount.Cents).
		Dur("processing_time", time.Since(startTime)).
		Msg("Payment intent approved")

	return &models.PaymentIntentResponse{
		RequestID:         requestID,
		Status:            models.IntentStatusApproved,
		IsIntraLedger:     flow.IsIntraLedger,
		SkipProbe:         flow.SkipProbe,
		PaymentHash:       flow.PaymentHash.String(),
		AmountSats:        flow.BtcPaymentAmount.Sats,
		AmountUsdCents:    flow.UsdPaymentAmount.Cents,
		AmountUsd:         currency.FormatUSD(flow.UsdPaymentAmount.Cents),
		RecipientUsername: flow.RecipientUsername,
		ProcessedAt:       time.Now(),
		ProcessingTime:    time.Since(startTime),
	}, nil
}

func (s *paymentFlowService) ConstructPaymentFlow(ctx context.Context, senderWallet domain.WalletDescriptor, invoice domain.LnInvoice, uncheckedAmount int64) (*domain.PaymentFlow, error) {
	localPubkeys, err := s.nodeClient.ListLocalPubkeys(ctx)
	if err != nil {
		return nil, err
	}

	builder := domain.NewFlowBuilder(domain.FlowBuilderConfig{
		LocalNodePubkeys: localPubkeys,
		FlaggedPubkeys:   s.nodeClient.FlaggedPubkeysToSkipProbe(),
	})

	var withInvoice *domain.FlowBuilderWithInvoice
	if uncheckedAmount > 0 {
		withInvoice, err = builder.WithNoAmountInvoice(invoice, uncheckedAmount)
	} else {
		withInvoice, err = builder.WithInvoice(invoice)
	}
	if err != nil {
		return nil, err
	}

	withSender := withInvoice.WithSenderWallet(senderWallet)

	var withRecipient *domain.FlowBuilderWithRecipient
	if withSender.IsIntraLedger() {
		details, err := s.recipientDetailsFromInvoice(ctx, invoice)
		if err != nil {
			return nil, err
		}
		withRecipient, err = withSender.WithRecipientWallet(*details)
		if err != nil {
			return nil, err
		}
	} else {
		withRecipient = withSender.WithoutRecipientWallet()
	}

	return withRecipient.WithConversion(ctx, domain.ConversionFns{
		UsdFromBtc: s.priceOracle.UsdFromBtc,
		BtcFromUsd: s.priceOracle.BtcFromUsd,
	})
}

func (s *paymentFlowService) recipientDetailsFromInvoice(ctx context.Context, invoice domain.LnInvoice) (*domain.RecipientDetails, error) {
	walletInvoice, err := s.invoiceRepo.FindByPaymentHash(ctx, invoice.PaymentHash)
	if err != nil {
		return nil, err
	}
	if walletInvoice.Paid {
		return nil, domain.ErrInvoiceAlreadyPaid
	}

	recipientWallet, err := s.walletRepo.FindByID(ctx, walletInvoice.RecipientWalletID)
	if err != nil {
		return nil, err
	}

	recipientAccount, err := s.accountRepo.FindByID(ctx, recipientWallet.AccountID)
	if err != nil {
		return nil, err
	}

	return &domain.RecipientDetails{
		WalletID:  recipientWallet.ID,
		Currency:  walletInvoice.RecipientCurrency,
		AccountID: recipientAccount.ID,
		Pubkey:    walletInvoice.Pubkey,
		UsdAmount: walletInvoice.UsdAmount,
		Username:  recipientAccount.Username,
	}, nil
}

func (s *paymentFlowService) PriceRatioForLimits(ctx context.Context, flow *domain.PaymentFlow) (domain.PriceRatio, error) {
	floor := s.limitsCfg.MinSatsForPriceRatioPrecision

	if flow.BtcPaymentAmount.Sats < floor {
		btcForRatio := domain.BtcPaymentAmount{Sats: floor}
		usdForRatio, err := s.priceOracle.UsdFromBtc(ctx, btcForRatio)
		if err != nil {
			return domain.PriceRatio{}, err
		}
		return domain.NewPriceRatio(usdForRatio, btcForRatio)
	}

	return domain.NewPriceRatio(flow.UsdPaymentAmount, flow.BtcPaymentAmount)
}

func (s *paymentFlowService) CheckIntraLedgerLimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error {
	since := time.Now().Add(-oneDay)

	volume, err := s.ledgerRepo.IntraLedgerTxVolumeSince(ctx, wallet, since)
	if err != nil {
		return err
	}

	limits, err := s.accountLimitsForWallet(ctx, wallet)
	if err != nil {
		return err
	}

	return domain.NewAccountLimitsChecker(limits, ratio).CheckIntraLedger(amount, volume)
}

func (s *paymentFlowService) CheckTradeIntraAccountLimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error {
	since := time.Now().Add(-oneDay)

	volume, err := s.ledgerRepo.TradeIntraAccountTxVolumeSince(ctx, wallet, since)
	if err != nil {
		return err
	}

	limits, err := s.accountLimitsForWallet(ctx, wallet)
	if err != nil {
		return err
	}

	return domain.NewAccountLimitsChecker(limits, ratio).CheckTradeIntraAccount(amount, volume)
}

func (s *paymentFlowService) CheckWithdrawalLimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error {
	since := time.Now().Add(-oneDay)

	volume, err := s.ledgerRepo.ExternalPaymentVolumeSince(ctx, wallet, since)
	if err != nil {
		return err
	}

	limits, err := s.accountLimitsForWallet(ctx, wallet)
	if err != nil {
		return err
	}

	return domain.NewAccountLimitsChecker(limits, ratio).CheckWithdrawal(amount, volume)
}

func (s *paymentFlowService) CheckTwoFALimits(ctx context.Context, amount domain.UsdPaymentAmount, wallet domain.WalletDescriptor, ratio domain.PriceRatio) error {
	since := time.Now().Add(-oneDay)

	volume, err := s.ledgerRepo.AllPaymentVolumeSince(ctx, wallet, since)
	if err != nil {
		return err
	}

	twoFALimits := domain.TwoFALimits{ThresholdCents: s.limitsCfg.TwoFAThresholdCents}

	return domain.NewTwoFALimitsChecker(twoFALimits, ratio).CheckTwoFA(amount, volume)
}

// runLimitChecks applies the checks relevant to the flow's branch: an
// intraledger payment within one account is a trade between its own
// wallets, across accounts an internal transfer, anything else a
// withdrawal. The two-factor check always applies.
func (s *paymentFlowService) runLimitChecks(ctx context.Context, flow *domain.PaymentFlow, ratio domain.PriceRatio) error {
	amount := flow.UsdPaymentAmount
	wallet := flow.SenderWalletDescriptor

	switch {
	case flow.IsIntraLedger && flow.RecipientWalletDescriptor.AccountID == wallet.AccountID:
		if err := s.CheckTradeIntraAccountLimits(ctx, amount, wallet, ratio); err != nil {
			return err
		}
	case flow.IsIntraLedger:
		if err := s.CheckIntraLedgerLimits(ctx, amount, wallet, ratio); err != nil {
			return err
		}
	default:
		if err := s.CheckWithdrawalLimits(ctx, amount, wallet, ratio); err != nil {
			return err
		}
	}

	return s.CheckTwoFALimits(ctx, amount, wallet, ratio)
}

func (s *paymentFlowService) accountLimitsForWallet(ctx context.Context, wallet domain.WalletDescriptor) (domain.AccountLimits, error) {
	account, err := s.accountRepo.FindByID(ctx, wallet.AccountID)
	if err != nil {
		return domain.AccountLimits{}, err
	}

	levelLimits, ok := s.limitsCfg.AccountLevels[int(account.Level)]
	if !ok {
		s.logger.Warn().
			Int("level", int(account.Level)).
			Str("account_id", account.ID).
			Msg("No limits configured for account level, falling back to level 1")
		levelLimits = s.limitsCfg.AccountLevels[int(domain.AccountLevelOne)]
	}

	return domain.AccountLimits{
		IntraLedgerCents:       levelLimits.IntraLedgerCents,
		TradeIntraAccountCents: levelLimits.TradeIntraAccountCents,
		WithdrawalCents:        levelLimits.WithdrawalCents,
	}, nil
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrInvoiceAlreadyPaid) ||
		errors.Is(err, domain.ErrZeroAmountForUsdRecipient) ||
		errors.Is(err, domain.ErrInvalidZeroAmountPriceRatioInput) ||
		errors.Is(err, domain.ErrInvoiceMissingAmount) ||
		errors.Is(err, domain.ErrInvalidUncheckedAmount) ||
		errors.Is(err, domain.ErrSelfPayment)
}

func rejectedResponse(requestID string, startTime time.Time, message string) *models.PaymentIntentResponse {
	return &models.PaymentIntentResponse{
		RequestID:      requestID,
		Status:         models.IntentStatusRejected,
		Message:        message,
		ProcessedAt:    time.Now(),
		ProcessingTime: time.Since(startTime),
	}
}
