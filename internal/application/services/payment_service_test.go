package services

import (
	"context"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/internal/domain/models"
	"github.com/tuncanbit/lnpay/pkg/config"
)

const (
	testLocalPubkey  = domain.Pubkey("03a306e9c4785c18ce5dcd4a561e48bb499e310b9fd4db4a1b441b1b38a2fc4f12")
	testRemotePubkey = domain.Pubkey("0260fab633066ed7b1d9b9b8a0fac87e1579d1709e874d28a0d171a1f5c43bb877")
)

func testPaymentHash(t *testing.T) lntypes.Hash {
	t.Helper()
	hash, err := lntypes.MakeHashFromStr("62e907b15cbf27d5425399ebf6f0fb50ebb88f18203c04b5dc55e1d4f2843d9c")
	require.NoError(t, err)
	return hash
}

type fakeWalletRepo struct {
	wallets map[string]domain.WalletDescriptor
}

func (f *fakeWalletRepo) FindByID(_ context.Context, walletID string) (*domain.WalletDescriptor, error) {
	wallet, ok := f.wallets[walletID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return &wallet, nil
}

type fakeAccountRepo struct {
	accounts map[string]domain.Account
}

func (f *fakeAccountRepo) FindByID(_ context.Context, accountID string) (*domain.Account, error) {
	account, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

type fakeInvoiceRepo struct {
	invoice *domain.WalletInvoice
}

func (f *fakeInvoiceRepo) FindByPaymentHash(_ context.Context, _ lntypes.Hash) (*domain.WalletInvoice, error) {
	if f.invoice == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	return f.invoice, nil
}

// fakeLedgerRepo reports a fixed per-category sent volume in the wallet's
// own currency and records which categories were queried.
type fakeLedgerRepo struct {
	intraLedger       int64
	tradeIntraAccount int64
	external          int64
	all               int64
	queried           []string
}

func (f *fakeLedgerRepo) volume(wallet domain.WalletDescriptor, amount int64, category string) (domain.WalletVolume, error) {
	f.queried = append(f.queried, category)
	return domain.WalletVolume{WalletID: wallet.ID, Currency: wallet.Currency, Amount: amount}, nil
}

func (f *fakeLedgerRepo) IntraLedgerTxVolumeSince(_ context.Context, wallet domain.WalletDescriptor, _ time.Time) (domain.WalletVolume, error) {
	return f.volume(wallet, f.intraLedger, "intra_ledger")
}

func (f *fakeLedgerRepo) TradeIntraAccountTxVolumeSince(_ context.Context, wallet domain.WalletDescriptor, _ time.Time) (domain.WalletVolume, error) {
	return f.volume(wallet, f.tradeIntraAccount, "trade_intra_account")
}

func (f *fakeLedgerRepo) ExternalPaymentVolumeSince(_ context.Context, wallet domain.WalletDescriptor, _ time.Time) (domain.WalletVolume, error) {
	return f.volume(wallet, f.external, "external")
}

func (f *fakeLedgerRepo) AllPaymentVolumeSince(_ context.Context, wallet domain.WalletDescriptor, _ time.Time) (domain.WalletVolume, error) {
	return f.volume(wallet, f.all, "all")
}

type fakeNodeClient struct {
	localPubkeys   []domain.Pubkey
	flaggedPubkeys []domain.Pubkey
	invoice        *domain.LnInvoice
}

func (f *fakeNodeClient) ListLocalPubkeys(_ context.Context) ([]domain.Pubkey, error) {
	return f.localPubkeys, nil
}

func (f *fakeNodeClient) FlaggedPubkeysToSkipProbe() []domain.Pubkey {
	return f.flaggedPubkeys
}

func (f *fakeNodeClient) DecodeInvoice(_ string) (*domain.LnInvoice, error) {
	return f.invoice, nil
}

// fakePriceOracle converts at a fixed 2500 sats per cent and records the
// btc amounts it was asked to price.
type fakePriceOracle struct {
	usdFromBtcCalls []int64
}

func (f *fakePriceOracle) UsdFromBtc(_ context.Context, amount domain.BtcPaymentAmount) (domain.UsdPaymentAmount, error) {
	f.usdFromBtcCalls = append(f.usdFromBtcCalls, amount.Sats)
	return domain.UsdPaymentAmount{Cents: amount.Sats / 2500}, nil
}

func (f *fakePriceOracle) BtcFromUsd(_ context.Context, amount domain.UsdPaymentAmount) (domain.BtcPaymentAmount, error) {
	return domain.BtcPaymentAmount{Sats: amount.Cents * 2500}, nil
}

type serviceFixture struct {
	svc     IPaymentFlowService
	wallets *fakeWalletRepo
	ledger  *fakeLedgerRepo
	node    *fakeNodeClient
	oracle  *fakePriceOracle
}

func newFixture(node *fakeNodeClient, invoiceRepo *fakeInvoiceRepo, ledger *fakeLedgerRepo) *serviceFixture {
	wallets := &fakeWalletRepo{wallets: map[string]domain.WalletDescriptor{
		"btc-wallet":   {ID: "btc-wallet", Currency: domain.WalletCurrencyBtc, AccountID: "account-a"},
		"usd-wallet":   {ID: "usd-wallet", Currency: domain.WalletCurrencyUsd, AccountID: "account-a"},
		"other-wallet": {ID: "other-wallet", Currency: domain.WalletCurrencyBtc, AccountID: "account-b"},
	}}
	accounts := &fakeAccountRepo{accounts: map[string]domain.Account{
		"account-a": {ID: "account-a", Level: domain.AccountLevelOne, Username: "alice"},
		"account-b": {ID: "account-b", Level: domain.AccountLevelOne, Username: "bob"},
	}}
	oracle := &fakePriceOracle{}

	limitsCfg := config.LimitsConfig{
		MinSatsForPriceRatioPrecision: 5000,
		TwoFAThresholdCents:           1_000_000,
		AccountLevels: map[int]config.AccountLevelLimits{
			1: {IntraLedgerCents: 50_000, TradeIntraAccountCents: 80_000, WithdrawalCents: 50_000},
		},
	}

	svc := NewPaymentFlowService(wallets, accounts, invoiceRepo, ledger, node, oracle, limitsCfg, zerolog.Nop())
	return &serviceFixture{svc: svc, wallets: wallets, ledger: ledger, node: node, oracle: oracle}
}

func externalNode(t *testing.T, amountSats int64) *fakeNodeClient {
	return &fakeNodeClient{
		localPubkeys: []domain.Pubkey{testLocalPubkey},
		invoice: &domain.LnInvoice{
			PaymentHash: testPaymentHash(t),
			Destination: testRemotePubkey,
			AmountSats:  amountSats,
		},
	}
}

func intraledgerNode(t *testing.T, amountSats int64) *fakeNodeClient {
	return &fakeNodeClient{
		localPubkeys: []domain.Pubkey{testLocalPubkey},
		invoice: &domain.LnInvoice{
			PaymentHash: testPaymentHash(t),
			Destination: testLocalPubkey,
			AmountSats:  amountSats,
		},
	}
}

func TestCreatePaymentIntent_ExternalApproved(t *testing.T) {
	fixture := newFixture(externalNode(t, 50_000), &fakeInvoiceRepo{}, &fakeLedgerRepo{})

	resp, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
		WalletID:       "btc-wallet",
		PaymentRequest: "lnbc500u1...",
	})
	require.NoError(t, err)

	assert.Equal(t, models.IntentStatusApproved, resp.Status)
	assert.False(t, resp.IsIntraLedger)
	assert.Equal(t, int64(50_000), resp.AmountSats)
	assert.Equal(t, int64(20), resp.AmountUsdCents)
	assert.Equal(t, "$0.20", resp.AmountUsd)
	assert.Nil(t, resp.RemainingUsdCents)

	// External payments draw on the withdrawal cap, plus the global
	// two-factor volume.
	assert.Equal(t, []string{"external", "all"}, fixture.ledger.queried)
}

func TestCreatePaymentIntent_IntraLedgerCategories(t *testing.T) {
	t.Run("cross-account uses intraledger volume", func(t *testing.T) {
		invoiceRepo := &fakeInvoiceRepo{invoice: &domain.WalletInvoice{
			PaymentHash:       testPaymentHash(t),
			RecipientWalletID: "other-wallet",
			RecipientCurrency: domain.WalletCurrencyBtc,
		}}
		fixture := newFixture(intraledgerNode(t, 25_000), invoiceRepo, &fakeLedgerRepo{})

		resp, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
			WalletID:       "btc-wallet",
			PaymentRequest: "lnbc250u1...",
		})
		require.NoError(t, err)

		assert.Equal(t, models.IntentStatusApproved, resp.Status)
		assert.True(t, resp.IsIntraLedger)
		assert.Equal(t, "bob", resp.RecipientUsername)
		assert.Equal(t, []string{"intra_ledger", "all"}, fixture.ledger.queried)
	})

	t.Run("same account uses trade volume", func(t *testing.T) {
		invoiceRepo := &fakeInvoiceRepo{invoice: &domain.WalletInvoice{
			PaymentHash:       testPaymentHash(t),
			RecipientWalletID: "usd-wallet",
			RecipientCurrency: domain.WalletCurrencyUsd,
		}}
		fixture := newFixture(intraledgerNode(t, 25_000), invoiceRepo, &fakeLedgerRepo{})

		resp, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
			WalletID:       "btc-wallet",
			PaymentRequest: "lnbc250u1...",
		})
		require.NoError(t, err)

		assert.Equal(t, models.IntentStatusApproved, resp.Status)
		assert.Equal(t, []string{"trade_intra_account", "all"}, fixture.ledger.queried)
	})
}

func TestCreatePaymentIntent_AlreadyPaidInvoiceRejected(t *testing.T) {
	invoiceRepo := &fakeInvoiceRepo{invoice: &domain.WalletInvoice{
		PaymentHash:       testPaymentHash(t),
		RecipientWalletID: "other-wallet",
		RecipientCurrency: domain.WalletCurrencyBtc,
		Paid:              true,
	}}
	fixture := newFixture(intraledgerNode(t, 25_000), invoiceRepo, &fakeLedgerRepo{})

	resp, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
		WalletID:       "btc-wallet",
		PaymentRequest: "lnbc250u1...",
	})
	require.NoError(t, err)

	assert.Equal(t, models.IntentStatusRejected, resp.Status)
	assert.Contains(t, resp.Message, "already paid")
	// No limit checks run for a rejected flow.
	assert.Empty(t, fixture.ledger.queried)
}

func TestCreatePaymentIntent_UnknownWallet(t *testing.T) {
	fixture := newFixture(externalNode(t, 50_000), &fakeInvoiceRepo{}, &fakeLedgerRepo{})

	_, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
		WalletID:       "missing",
		PaymentRequest: "lnbc500u1...",
	})
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestCreatePaymentIntent_NoAmountInvoicePicksSenderDenomination(t *testing.T) {
	fixture := newFixture(externalNode(t, 0), &fakeInvoiceRepo{}, &fakeLedgerRepo{})

	resp, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
		WalletID:       "usd-wallet",
		PaymentRequest: "lnbc1...",
		AmountSats:     99_999,
		AmountUsdCents: 300,
	})
	require.NoError(t, err)

	assert.Equal(t, models.IntentStatusApproved, resp.Status)
	assert.Equal(t, int64(300), resp.AmountUsdCents)
	assert.Equal(t, int64(750_000), resp.AmountSats)
}

func TestCreatePaymentIntent_LimitExceeded(t *testing.T) {
	// $400 already withdrawn against the $500 cap; a $150 payment leaves
	// the exact $100 shortfall in the response.
	ledger := &fakeLedgerRepo{external: 40_000}
	fixture := newFixture(externalNode(t, 37_500_000), &fakeInvoiceRepo{}, ledger)

	resp, err := fixture.svc.CreatePaymentIntent(context.Background(), &models.PaymentIntentRequest{
		WalletID:       "usd-wallet",
		PaymentRequest: "lnbc...",
	})
	require.NoError(t, err)

	assert.Equal(t, models.IntentStatusLimitExceeded, resp.Status)
	require.NotNil(t, resp.RemainingUsdCents)
	assert.Equal(t, int64(10_000), *resp.RemainingUsdCents)
}

func TestPriceRatioForLimits(t *testing.T) {
	t.Run("small flows price the precision floor instead", func(t *testing.T) {
		fixture := newFixture(externalNode(t, 50_000), &fakeInvoiceRepo{}, &fakeLedgerRepo{})

		flow := &domain.PaymentFlow{
			BtcPaymentAmount: domain.BtcPaymentAmount{Sats: 100},
			UsdPaymentAmount: domain.UsdPaymentAmount{Cents: 1},
		}

		ratio, err := fixture.svc.PriceRatioForLimits(context.Background(), flow)
		require.NoError(t, err)

		require.Len(t, fixture.oracle.usdFromBtcCalls, 1)
		assert.Equal(t, int64(5000), fixture.oracle.usdFromBtcCalls[0])

		// 5000 sats priced at 2 cents, i.e. 2500 sats per cent.
		converted := ratio.ConvertFromUsd(domain.UsdPaymentAmount{Cents: 10})
		assert.Equal(t, int64(25_000), converted.Sats)
	})

	t.Run("large flows derive the ratio from their own amounts", func(t *testing.T) {
		fixture := newFixture(externalNode(t, 50_000), &fakeInvoiceRepo{}, &fakeLedgerRepo{})

		flow := &domain.PaymentFlow{
			BtcPaymentAmount: domain.BtcPaymentAmount{Sats: 10_000},
			UsdPaymentAmount: domain.UsdPaymentAmount{Cents: 5},
		}

		ratio, err := fixture.svc.PriceRatioForLimits(context.Background(), flow)
		require.NoError(t, err)
		assert.Empty(t, fixture.oracle.usdFromBtcCalls)

		converted := ratio.ConvertFromBtc(domain.BtcPaymentAmount{Sats: 2000})
		assert.Equal(t, int64(1), converted.Cents)
	})
}
