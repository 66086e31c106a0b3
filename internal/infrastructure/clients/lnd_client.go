package clients

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/rs/zerolog"

	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/pkg/config"
)

// LndClient talks to the configured local lnd nodes over their REST API
// and decodes BOLT11 payment requests. Identity pubkeys are fetched once
// and cached for the process lifetime; node identities do not change
// while we are running.
type LndClient struct {
	config     *config.LndConfig
	netParams  *chaincfg.Params
	httpClient *http.Client
	logger     zerolog.Logger

	mu            sync.Mutex
	cachedPubkeys []domain.Pubkey
}

func NewLndClient(cfg *config.LndConfig, logger zerolog.Logger) (*LndClient, error) {
	netParams, err := networkParams(cfg.Network)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{}
	for _, node := range cfg.Nodes {
		if node.TLSInsecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
			break
		}
	}

	return &LndClient{
		config:    cfg,
		netParams: netParams,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger.With().Str("component", "lnd_client").Logger(),
	}, nil
}

func (c *LndClient) ListLocalPubkeys(ctx context.Context) ([]domain.Pubkey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedPubkeys != nil {
		return c.cachedPubkeys, nil
	}

	pubkeys := make([]domain.Pubkey, 0, len(c.config.Nodes))
	for _, node := range c.config.Nodes {
		pubkey, err := c.fetchIdentityPubkey(ctx, node)
		if err != nil {
			return nil, fmt.Errorf("fetching identity pubkey from %s: %w", node.RESTHost, err)
		}
		pubkeys = append(pubkeys, pubkey)
	}

	c.logger.Info().Int("node_count", len(pubkeys)).Msg("Cached local node identity pubkeys")
	c.cachedPubkeys = pubkeys
	return pubkeys, nil
}

func (c *LndClient) FlaggedPubkeysToSkipProbe() []domain.Pubkey {
	flagged := make([]domain.Pubkey, len(c.config.FlaggedPubkeys))
	for i, pk := range c.config.FlaggedPubkeys {
		flagged[i] = domain.Pubkey(pk)
	}
	return flagged
}

func (c *LndClient) DecodeInvoice(paymentRequest string) (*domain.LnInvoice, error) {
	inv, err := zpay32.Decode(paymentRequest, c.netParams)
	if err != nil {
		return nil, fmt.Errorf("decoding payment request: %w", err)
	}
	if inv.PaymentHash == nil || inv.Destination == nil {
		return nil, fmt.Errorf("payment request missing payment hash or destination")
	}

	var amountSats int64
	if inv.MilliSat != nil {
		amountSats = int64(inv.MilliSat.ToSatoshis())
	}

	return &domain.LnInvoice{
		PaymentHash:    lntypes.Hash(*inv.PaymentHash),
		Destination:    domain.Pubkey(hex.EncodeToString(inv.Destination.SerializeCompressed())),
		AmountSats:     amountSats,
		PaymentRequest: paymentRequest,
		ExpiresAt:      inv.Timestamp.Add(inv.Expiry()),
	}, nil
}

func (c *LndClient) fetchIdentityPubkey(ctx context.Context, node config.LndNodeConfig) (domain.Pubkey, error) {
	url := fmt.Sprintf("https://%s/v1/getinfo", node.RESTHost)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request failed: %w", err)
	}
	req.Header.Set("Grpc-Metadata-macaroon", node.MacaroonHex)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("lnd returned status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		IdentityPubkey string `json:"identity_pubkey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("parsing getinfo response failed: %w", err)
	}
	if info.IdentityPubkey == "" {
		return "", fmt.Errorf("lnd getinfo returned empty identity pubkey")
	}

	return domain.Pubkey(info.IdentityPubkey), nil
}

func networkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unknown lightning network %q", network)
	}
}
