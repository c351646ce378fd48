// Package config loads the radar configuration from YAML, .env and the
// process environment. Nothing here is a process-wide singleton: callers
// pass the loaded Config into the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"base-signal-radar/internal/domain"
)

// Config is the full service configuration.
type Config struct {
	Chain      ChainConfig      `yaml:"chain"`
	RPC        RPCConfig        `yaml:"rpc"`
	Explorer   ExplorerConfig   `yaml:"explorer"`
	PairSearch PairSearchConfig `yaml:"pair_search"`
	Logs       LogsConfig       `yaml:"logs"`
	Trust      Trust            `yaml:"trust"`
	DeepScan   DeepScanConfig   `yaml:"deep_scan"`
	Feed       FeedConfig       `yaml:"feed"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
}

// ChainConfig identifies the EVM chain being watched.
type ChainConfig struct {
	Name    string `yaml:"name"`
	ChainID int64  `yaml:"chain_id"`
}

// RPCConfig configures the JSON-RPC node client.
type RPCConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// ExplorerConfig configures the block-explorer API client.
type ExplorerConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// PairSearchConfig configures the pair-discovery API client.
type PairSearchConfig struct {
	BaseURL            string        `yaml:"base_url"`
	ChainID            string        `yaml:"chain_id"`
	Queries            []string      `yaml:"queries"`
	Timeout            time.Duration `yaml:"timeout"`
	EnrichVerification bool          `yaml:"enrich_verification"`
}

// LogsConfig configures the PoolCreated log scan.
type LogsConfig struct {
	PoolCreatedTopic string `yaml:"pool_created_topic"`
	LookbackBlocks   uint64 `yaml:"lookback_blocks"`
	MaxPools         int    `yaml:"max_pools"`
	Concurrency      int    `yaml:"concurrency"`
	EnrichExplorer   bool   `yaml:"enrich_explorer"`
}

// Trust holds the allow-lists that decide exchange and deployer trust.
// Factory and dex id keys are matched lower-cased.
type Trust struct {
	Factories      map[string]string `yaml:"factories"`
	DexIDs         map[string]string `yaml:"dex_ids"`
	KnownDeployers []string          `yaml:"known_deployers"`
	KnownExchanges []string          `yaml:"known_exchanges"`
}

// DeepScanConfig configures the deep-scan aggregator.
type DeepScanConfig struct {
	LookupTimeout        time.Duration `yaml:"lookup_timeout"`
	RecentTxLimit        int           `yaml:"recent_tx_limit"`
	TokenTxLimit         int           `yaml:"token_tx_limit"`
	WashTradingThreshold int           `yaml:"wash_trading_threshold"`
}

// FeedConfig selects the live feed sources.
type FeedConfig struct {
	// Sources are tried in order; the first non-empty one wins.
	// Valid values: "pairsearch", "logs".
	Sources []string `yaml:"sources"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// StorageConfig configures watchlist persistence.
type StorageConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	UseMemory   bool   `yaml:"use_memory"`
}

// Default returns the built-in configuration for Base mainnet.
func Default() Config {
	return Config{
		Chain: ChainConfig{Name: "base", ChainID: 8453},
		RPC: RPCConfig{
			Endpoint:   "https://mainnet.base.org",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Explorer: ExplorerConfig{
			BaseURL:    "https://api.basescan.org/api",
			Timeout:    15 * time.Second,
			MaxRetries: 2,
		},
		PairSearch: PairSearchConfig{
			BaseURL: "https://api.dexscreener.com",
			ChainID: "base",
			Queries: []string{"WETH", "USDC"},
			Timeout: 15 * time.Second,
		},
		Logs: LogsConfig{
			PoolCreatedTopic: "0x783cca1c0412dd0d695e784568c96da2e9c22ff989357a2e8b1d9b2b4e6b7118",
			LookbackBlocks:   1000,
			MaxPools:         8,
			Concurrency:      4,
			EnrichExplorer:   true,
		},
		Trust: DefaultTrust(),
		DeepScan: DeepScanConfig{
			LookupTimeout:        10 * time.Second,
			RecentTxLimit:        20,
			TokenTxLimit:         50,
			WashTradingThreshold: 5,
		},
		Feed: FeedConfig{Sources: []string{"pairsearch", "logs"}},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 60 * time.Second,
		},
		Storage: StorageConfig{UseMemory: true},
	}
}

// DefaultTrust returns the built-in Base allow-lists.
func DefaultTrust() Trust {
	return Trust{
		Factories: map[string]string{
			"0x33128a8fc17869897dce68ed026d694621f6fdfd": domain.ExchangeUniswapV3,
			"0x420dd381b31aef6683db6b902084cb0ffece40da": domain.ExchangeAerodrome,
			"0xfda619b6d20975be80a10332cd39b9a4b0faa8bb": domain.ExchangeBaseSwap,
			"0x71524b4f93c58fcbf659783284e38825f0622859": domain.ExchangeSushiSwap,
			"0xa5961898870943c68037f6848d2d866ed2016bcb": domain.ExchangeCurve,
		},
		DexIDs: map[string]string{
			"uniswap":    domain.ExchangeUniswapV3,
			"aerodrome":  domain.ExchangeAerodrome,
			"baseswap":   domain.ExchangeBaseSwap,
			"sushiswap":  domain.ExchangeSushiSwap,
			"sushi":      domain.ExchangeSushiSwap,
			"curve":      domain.ExchangeCurve,
			"curvefi":    domain.ExchangeCurve,
			"uniswap_v3": domain.ExchangeUniswapV3,
		},
		KnownDeployers: []string{
			"0x4200000000000000000000000000000000000006",
			"0x1cea84203673764244e05693e42e6ace62be9ba5",
		},
		KnownExchanges: domain.KnownExchanges(),
	}
}

// Load builds a Config from defaults, an optional YAML file, an optional
// .env file and the process environment, in that order of precedence
// (later wins).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	applyEnv(&cfg, os.Getenv)
	cfg.Trust = cfg.Trust.normalized()

	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("RPC_ENDPOINT"); v != "" {
		cfg.RPC.Endpoint = v
	} else if key := getenv("ALCHEMY_API_KEY"); key != "" {
		cfg.RPC.Endpoint = "https://base-mainnet.g.alchemy.com/v2/" + key
	}
	if v := getenv("BASESCAN_API_KEY"); v != "" {
		cfg.Explorer.APIKey = v
	}
	if v := getenv("EXPLORER_BASE_URL"); v != "" {
		cfg.Explorer.BaseURL = v
	}
	if v := getenv("PAIR_SEARCH_BASE_URL"); v != "" {
		cfg.PairSearch.BaseURL = v
	}
	if v := getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
		cfg.Storage.UseMemory = false
	}
	if v := getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("WASH_TRADING_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DeepScan.WashTradingThreshold = n
		}
	}
}

// normalized lower-cases all address and id keys.
func (t Trust) normalized() Trust {
	out := Trust{
		Factories:      make(map[string]string, len(t.Factories)),
		DexIDs:         make(map[string]string, len(t.DexIDs)),
		KnownDeployers: make([]string, 0, len(t.KnownDeployers)),
		KnownExchanges: append([]string(nil), t.KnownExchanges...),
	}
	for k, v := range t.Factories {
		out.Factories[strings.ToLower(k)] = v
	}
	for k, v := range t.DexIDs {
		out.DexIDs[strings.ToLower(k)] = v
	}
	for _, d := range t.KnownDeployers {
		out.KnownDeployers = append(out.KnownDeployers, strings.ToLower(d))
	}
	if len(out.KnownExchanges) == 0 {
		out.KnownExchanges = domain.KnownExchanges()
	}
	return out
}

// Validate checks required fields.
func (c Config) Validate() error {
	var errs []error
	if c.RPC.Endpoint == "" {
		errs = append(errs, errors.New("rpc.endpoint is required"))
	}
	if c.Explorer.BaseURL == "" {
		errs = append(errs, errors.New("explorer.base_url is required"))
	}
	if c.DeepScan.WashTradingThreshold < 0 {
		errs = append(errs, errors.New("deep_scan.wash_trading_threshold must be non-negative"))
	}
	if c.DeepScan.LookupTimeout <= 0 {
		errs = append(errs, errors.New("deep_scan.lookup_timeout must be positive"))
	}
	if !c.Storage.UseMemory && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgres_dsn is required unless storage.use_memory is set"))
	}
	for _, s := range c.Feed.Sources {
		if s != "pairsearch" && s != "logs" {
			errs = append(errs, fmt.Errorf("feed.sources: unknown source %q", s))
		}
	}
	return errors.Join(errs...)
}
