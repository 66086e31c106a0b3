package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Lnd         LndConfig         `yaml:"lnd"`
	PriceOracle PriceOracleConfig `yaml:"price_oracle"`
	Limits      LimitsConfig      `yaml:"limits"`
	Security    SecurityConfig    `yaml:"security"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	JWT         JWTConfig         `yaml:"jwt"`
	Logger      LoggerConfig      `yaml:"logger"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	TimeFormat string `yaml:"time_format"`
	Pretty     bool   `yaml:"pretty"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	DBName          string `yaml:"name"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type LndNodeConfig struct {
	RESTHost    string `yaml:"rest_host"`
	MacaroonHex string `yaml:"macaroon_hex"`
	TLSInsecure bool   `yaml:"tls_insecure"`
}

type LndConfig struct {
	Network        string          `yaml:"network"` // mainnet, testnet, regtest, signet
	Nodes          []LndNodeConfig `yaml:"nodes"`
	FlaggedPubkeys []string        `yaml:"flagged_pubkeys"` // destinations excluded from route probing
	Timeout        time.Duration   `yaml:"timeout"`
	MaxRetries     int             `yaml:"max_retries"`
}

type PriceOracleConfig struct {
	BaseURL          string `yaml:"base_url"`
	Timeout          int    `yaml:"timeout"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBackoffBase int    `yaml:"retry_backoff_base"`
	APIKey           string `yaml:"api_key"`
}

type AccountLevelLimits struct {
	IntraLedgerCents       int64 `yaml:"intra_ledger_cents"`
	TradeIntraAccountCents int64 `yaml:"trade_intra_account_cents"`
	WithdrawalCents        int64 `yaml:"withdrawal_cents"`
}

type LimitsConfig struct {
	// MinSatsForPriceRatioPrecision is the smallest btc amount a limits
	// price ratio may be derived from; flows below it use an oracle quote
	// for exactly this amount instead of their own amounts.
	MinSatsForPriceRatioPrecision int64                      `yaml:"min_sats_for_price_ratio_precision"`
	AccountLevels                 map[int]AccountLevelLimits `yaml:"account_levels"`
	TwoFAThresholdCents           int64                      `yaml:"two_fa_threshold_cents"`
}

type SecurityConfig struct {
	APIKey      string `yaml:"api_key"`
	TLSCertPath string `yaml:"tls_cert_path"`
	TLSKeyPath  string `yaml:"tls_key_path"`
}

type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	CheckOrigin     bool          `yaml:"check_origin"`
	PingPeriod      time.Duration `yaml:"ping_period"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	var config Config
	configData, err := os.ReadFile("./config.yaml")
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Limits.MinSatsForPriceRatioPrecision == 0 {
		config.Limits.MinSatsForPriceRatioPrecision = 5000
	}
	if config.Lnd.Network == "" {
		config.Lnd.Network = "mainnet"
	}
	if config.Lnd.Timeout == 0 {
		config.Lnd.Timeout = 10 * time.Second
	}
}
