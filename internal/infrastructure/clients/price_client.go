package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/pkg/config"
)

var (
	satsPerBtc     = decimal.NewFromInt(100_000_000)
	centsPerDollar = decimal.NewFromInt(100)
)

// PriceOracleClient quotes the current BTC/USD mid-market price and
// converts amounts between the two denominations. Conversions round half
// to even into integer units.
type PriceOracleClient struct {
	baseURL    string
	httpClient *http.Client
	config     *config.PriceOracleConfig
	logger     zerolog.Logger
}

func NewPriceOracleClient(cfg *config.PriceOracleConfig, logger zerolog.Logger) *PriceOracleClient {
	return &PriceOracleClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		config: cfg,
		logger: logger.With().Str("component", "price_oracle_client").Logger(),
	}
}

func (c *PriceOracleClient) UsdFromBtc(ctx context.Context, amount domain.BtcPaymentAmount) (domain.UsdPaymentAmount, error) {
	price, err := c.getBtcUsdPriceWithRetry(ctx, 0)
	if err != nil {
		return domain.UsdPaymentAmount{}, err
	}

	cents := price.
		Mul(decimal.NewFromInt(amount.Sats)).
		Mul(centsPerDollar).
		Div(satsPerBtc).
		RoundBank(0)

	return domain.UsdPaymentAmount{Cents: cents.IntPart()}, nil
}

func (c *PriceOracleClient) BtcFromUsd(ctx context.Context, amount domain.UsdPaymentAmount) (domain.BtcPaymentAmount, error) {
	price, err := c.getBtcUsdPriceWithRetry(ctx, 0)
	if err != nil {
		return domain.BtcPaymentAmount{}, err
	}
	if price.IsZero() {
		return domain.BtcPaymentAmount{}, fmt.Errorf("oracle returned zero price")
	}

	sats := decimal.NewFromInt(amount.Cents).
		Mul(satsPerBtc).
		Div(price.Mul(centsPerDollar)).
		RoundBank(0)

	return domain.BtcPaymentAmount{Sats: sats.IntPart()}, nil
}

func (c *PriceOracleClient) getBtcUsdPriceWithRetry(ctx context.Context, attempt int) (decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/v1/price/btc-usd"

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request failed: %w", err)
	}

	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if shouldRetry(err) && attempt < c.config.MaxRetries {
			backoff := calculateBackoff(attempt, c.config.RetryBackoffBase)
			c.logger.Info().
				Err(err).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Price request failed, retrying after backoff")

			time.Sleep(backoff)
			return c.getBtcUsdPriceWithRetry(ctx, attempt+1)
		}
		return decimal.Zero, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if shouldRetryStatusCode(resp.StatusCode) && attempt < c.config.MaxRetries {
			backoff := calculateBackoff(attempt, c.config.RetryBackoffBase)
			c.logger.Warn().
				Int("status_code", resp.StatusCode).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Received non-200 status, retrying after backoff")

			time.Sleep(backoff)
			return c.getBtcUsdPriceWithRetry(ctx, attempt+1)
		}
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("price oracle returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading response body failed: %w", err)
	}

	var response struct {
		Data struct {
			PriceUsd string `json:"price_usd"`
		} `json:"data"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return decimal.Zero, fmt.Errorf("parsing price response failed: %w", err)
	}

	price, err := decimal.NewFromString(response.Data.PriceUsd)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", response.Data.PriceUsd, err)
	}

	return price, nil
}

func shouldRetry(err error) bool {
	if err, ok := err.(interface{ Timeout() bool }); ok && err.Timeout() {
		return true
	}
	if err, ok := err.(interface{ Temporary() bool }); ok && err.Temporary() {
		return true
	}
	return false
}

func shouldRetryStatusCode(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

func calculateBackoff(attempt, base int) time.Duration {
	if base <= 0 {
		base = 2
	}
	backoff := time.Duration(base^attempt) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
