package configloader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Default values applied by Load.
const (
	DefaultServerPort         = "8080"
	DefaultSuiRPCURL          = "https://fullnode.testnet.sui.io"
	DefaultCoinGeckoURL       = "https://api.coingecko.com/api/v3"
	DefaultWalrusPublisherURL = "https://publisher.walrus-testnet.walrus.space"
	DefaultWalrusAggregator   = "https://aggregator.walrus-testnet.walrus.space"
	DefaultChatBaseURL        = "https://api.intelligence.io.solutions/api/v1"
	DefaultChatModel          = "meta-llama/Llama-3.3-70B-Instruct"
	DefaultPackageID          = "0x7111b909689ec53115a2360c3fe9106c2c6f8e152dbc37d4a98bae51a37f8f62"
	DefaultModelID            = "atoma-123"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port                   string   `yaml:"port"`
	ShutdownTimeoutSeconds int      `yaml:"shutdownTimeoutSeconds"`
	AllowedOrigins         []string `yaml:"allowedOrigins"`
	EnablePprof            bool     `yaml:"enablePprof"`
	SwaggerSpecPath        string   `yaml:"swaggerSpecPath"`
	MaxUploadBytes         int64    `yaml:"maxUploadBytes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// LedgerConfig holds the Sui full node connection.
type LedgerConfig struct {
	Network                 string   `yaml:"network"`
	RPCURL                  string   `yaml:"rpcURL"`
	FallbackRPCURLs         []string `yaml:"fallbackRPCURLs"`
	ConnectTimeoutSeconds   int      `yaml:"connectTimeoutSeconds"`
	CallTimeoutSeconds      int      `yaml:"callTimeoutSeconds"`
	RequestsPerSecond       float64  `yaml:"requestsPerSecond"`
	Burst                   int      `yaml:"burst"`
	MetadataCacheTTLMinutes int      `yaml:"metadataCacheTTLMinutes"`
}

// CoinGeckoConfig holds CoinGecko API configuration.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	CoinID               string `yaml:"coinID"`
	VsCurrency           string `yaml:"vsCurrency"`
	ClientTimeoutSeconds int    `yaml:"clientTimeoutSeconds"`
	CacheTTLSeconds      int    `yaml:"cacheTTLSeconds"`
}

// WalrusConfig holds blob store configuration.
type WalrusConfig struct {
	PublisherURL          string `yaml:"publisherURL"`
	AggregatorURL         string `yaml:"aggregatorURL"`
	Epochs                int    `yaml:"epochs"`
	MaxAttempts           int    `yaml:"maxAttempts"`
	RetryBackoffMillis    int    `yaml:"retryBackoffMillis"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// ChatConfig holds the chat completion API configuration.
type ChatConfig struct {
	BaseURL               string  `yaml:"baseURL"`
	APIKey                string  `yaml:"apiKey"`
	Model                 string  `yaml:"model"`
	Temperature           float64 `yaml:"temperature"`
	MaxCompletionTokens   int     `yaml:"maxCompletionTokens"`
	RequestTimeoutSeconds int     `yaml:"requestTimeoutSeconds"`
}

// INFTConfig holds the platform's Move package settings.
type INFTConfig struct {
	PackageID string `yaml:"packageID"`
	ModelID   string `yaml:"modelID"`
	GasBudget uint64 `yaml:"gasBudget"`
}

// RefreshConfig holds the background refresher configuration.
type RefreshConfig struct {
	Enabled            bool   `yaml:"enabled"`
	IntervalSeconds    int    `yaml:"intervalSeconds"`
	AddressesFile      string `yaml:"addressesFile"`
	SnapshotTTLSeconds int    `yaml:"snapshotTTLSeconds"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr                string `yaml:"addr"`
	Password            string `yaml:"password"`
	DB                  int    `yaml:"db"`
	PoolSize            int    `yaml:"poolSize"`
	MinIdleConns        int    `yaml:"minIdleConns"`
	DialTimeoutSeconds  int    `yaml:"dialTimeoutSeconds"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	KeyPrefix           string `yaml:"keyPrefix"`
}

// FavoritesConfig selects the favorites backend.
type FavoritesConfig struct {
	Backend string      `yaml:"backend"` // "memory" or "redis"
	Redis   RedisConfig `yaml:"redis"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
	ObjectPageSize        int `yaml:"object_page_size"`
	MaxObjects            int `yaml:"max_objects"`
	TransactionPageSize   int `yaml:"transaction_page_size"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Ledger      LedgerConfig      `yaml:"ledger"`
	CoinGecko   CoinGeckoConfig   `yaml:"coingecko"`
	Walrus      WalrusConfig      `yaml:"walrus"`
	Chat        ChatConfig        `yaml:"chat"`
	INFT        INFTConfig        `yaml:"inft"`
	Refresh     RefreshConfig     `yaml:"refresh"`
	Favorites   FavoritesConfig   `yaml:"favorites"`
	Performance PerformanceConfig `yaml:"performance"`
}

// Load reads the YAML configuration file from the given path, applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data: %v", err)
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// applyEnv lets secrets and deployment-specific values come from the environment.
func applyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"SUI_RPC_URL", &cfg.Ledger.RPCURL},
		{"COINGECKO_API_KEY", &cfg.CoinGecko.APIKey},
		{"WALRUS_PUBLISHER_URL", &cfg.Walrus.PublisherURL},
		{"WALRUS_AGGREGATOR_URL", &cfg.Walrus.AggregatorURL},
		{"IOINTELLIGENCE_API_KEY", &cfg.Chat.APIKey},
		{"INFT_PACKAGE_ID", &cfg.INFT.PackageID},
		{"ATOMA_MODEL_ID", &cfg.INFT.ModelID},
		{"REDIS_ADDR", &cfg.Favorites.Redis.Addr},
		{"REDIS_PASSWORD", &cfg.Favorites.Redis.Password},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.target = v
			logrus.Debugf("%s set from environment", o.env)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	if cfg.Server.SwaggerSpecPath == "" {
		cfg.Server.SwaggerSpecPath = "./docs/swagger.yaml"
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		cfg.Server.MaxUploadBytes = 10 << 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Ledger.Network == "" {
		cfg.Ledger.Network = "testnet"
	}
	if cfg.Ledger.RPCURL == "" {
		cfg.Ledger.RPCURL = DefaultSuiRPCURL
		logrus.Infof("Ledger.RPCURL not set, defaulting to %s", cfg.Ledger.RPCURL)
	}
	if cfg.Ledger.ConnectTimeoutSeconds <= 0 {
		cfg.Ledger.ConnectTimeoutSeconds = 10
	}
	if cfg.Ledger.CallTimeoutSeconds <= 0 {
		cfg.Ledger.CallTimeoutSeconds = 15
	}
	if cfg.Ledger.RequestsPerSecond <= 0 {
		cfg.Ledger.RequestsPerSecond = 20
	}
	if cfg.Ledger.Burst <= 0 {
		cfg.Ledger.Burst = 10
	}
	if cfg.Ledger.MetadataCacheTTLMinutes <= 0 {
		cfg.Ledger.MetadataCacheTTLMinutes = 60
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = DefaultCoinGeckoURL
	}
	if cfg.CoinGecko.CoinID == "" {
		cfg.CoinGecko.CoinID = "sui"
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}
	if cfg.CoinGecko.ClientTimeoutSeconds <= 0 {
		cfg.CoinGecko.ClientTimeoutSeconds = 10
	}
	if cfg.CoinGecko.CacheTTLSeconds <= 0 {
		cfg.CoinGecko.CacheTTLSeconds = 60
	}

	if cfg.Walrus.PublisherURL == "" {
		cfg.Walrus.PublisherURL = DefaultWalrusPublisherURL
	}
	if cfg.Walrus.AggregatorURL == "" {
		cfg.Walrus.AggregatorURL = DefaultWalrusAggregator
	}
	if cfg.Walrus.Epochs <= 0 {
		cfg.Walrus.Epochs = 3
	}
	if cfg.Walrus.MaxAttempts <= 0 {
		cfg.Walrus.MaxAttempts = 3
	}
	if cfg.Walrus.RetryBackoffMillis <= 0 {
		cfg.Walrus.RetryBackoffMillis = 2000
	}
	if cfg.Walrus.RequestTimeoutSeconds <= 0 {
		cfg.Walrus.RequestTimeoutSeconds = 60
	}

	if cfg.Chat.BaseURL == "" {
		cfg.Chat.BaseURL = DefaultChatBaseURL
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = DefaultChatModel
	}
	if cfg.Chat.Temperature <= 0 {
		cfg.Chat.Temperature = 0.7
	}
	if cfg.Chat.MaxCompletionTokens <= 0 {
		cfg.Chat.MaxCompletionTokens = 50
	}
	if cfg.Chat.RequestTimeoutSeconds <= 0 {
		cfg.Chat.RequestTimeoutSeconds = 30
	}
	if cfg.Chat.APIKey == "" {
		logrus.Warn("Chat.APIKey is not set, chat requests will be rejected by the provider")
	}

	if cfg.INFT.PackageID == "" {
		cfg.INFT.PackageID = DefaultPackageID
	}
	if cfg.INFT.ModelID == "" {
		cfg.INFT.ModelID = DefaultModelID
	}
	if cfg.INFT.GasBudget == 0 {
		cfg.INFT.GasBudget = 10_000_000
	}

	if cfg.Refresh.IntervalSeconds <= 0 {
		cfg.Refresh.IntervalSeconds = 30
	}
	if cfg.Refresh.AddressesFile == "" {
		cfg.Refresh.AddressesFile = "data/addresses.txt"
	}
	if cfg.Refresh.SnapshotTTLSeconds <= 0 {
		cfg.Refresh.SnapshotTTLSeconds = 600
	}

	if cfg.Favorites.Backend == "" {
		cfg.Favorites.Backend = "memory"
	}
	if cfg.Favorites.Redis.KeyPrefix == "" {
		cfg.Favorites.Redis.KeyPrefix = "inft:favorites:"
	}
	if cfg.Favorites.Redis.PoolSize <= 0 {
		cfg.Favorites.Redis.PoolSize = 10
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 4
	}
	if cfg.Performance.ObjectPageSize <= 0 {
		cfg.Performance.ObjectPageSize = 50
	}
	if cfg.Performance.MaxObjects <= 0 {
		cfg.Performance.MaxObjects = 200
	}
	if cfg.Performance.TransactionPageSize <= 0 {
		cfg.Performance.TransactionPageSize = 50
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Favorites.Backend) {
	case "memory":
	case "redis":
		if c.Favorites.Redis.Addr == "" {
			return fmt.Errorf("favorites.redis.addr is required when favorites.backend is redis")
		}
	default:
		return fmt.Errorf("unknown favorites backend %q", c.Favorites.Backend)
	}
	if !strings.HasPrefix(c.INFT.PackageID, "0x") {
		return fmt.Errorf("inft.packageID %q must start with 0x", c.INFT.PackageID)
	}
	if c.Performance.ObjectPageSize > c.Performance.MaxObjects {
		return fmt.Errorf("performance.object_page_size (%d) exceeds performance.max_objects (%d)",
			c.Performance.ObjectPageSize, c.Performance.MaxObjects)
	}
	return nil
}

// SnapshotTTL returns how long an address's snapshot is kept after its last refresh.
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.Refresh.SnapshotTTLSeconds) * time.Second
}

// RefreshInterval returns the background refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalSeconds) * time.Second
}

// PriceTTL returns how long a fetched native price stays fresh.
func (c *Config) PriceTTL() time.Duration {
	return time.Duration(c.CoinGecko.CacheTTLSeconds) * time.Second
}
