package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"base-signal-radar/internal/domain"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.DeepScan.WashTradingThreshold)
	assert.Equal(t, domain.ExchangeAerodrome, cfg.Trust.Factories["0x420dd381b31aef6683db6b902084cb0ffece40da"])
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radar.yaml")
	content := `
rpc:
  endpoint: wss://node.example/ws
deep_scan:
  lookup_timeout: 3s
  wash_trading_threshold: 3
trust:
  factories:
    "0xABCDEF0000000000000000000000000000000001": "Uniswap V3"
  known_deployers:
    - "0xDEADBEEF00000000000000000000000000000000"
feed:
  sources: [logs]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://node.example/ws", cfg.RPC.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.DeepScan.LookupTimeout)
	assert.Equal(t, 3, cfg.DeepScan.WashTradingThreshold)
	assert.Equal(t, []string{"logs"}, cfg.Feed.Sources)

	// Keys are lower-cased after load.
	assert.Equal(t, domain.ExchangeUniswapV3, cfg.Trust.Factories["0xabcdef0000000000000000000000000000000001"])
	assert.Contains(t, cfg.Trust.KnownDeployers, "0xdeadbeef00000000000000000000000000000000")

	// Untouched sections keep their defaults.
	assert.Equal(t, 20, cfg.DeepScan.RecentTxLimit)
	assert.NotEmpty(t, cfg.Trust.KnownExchanges)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ALCHEMY_API_KEY":        "abc",
		"BASESCAN_API_KEY":       "scan-key",
		"POSTGRES_DSN":           "postgres://x",
		"WASH_TRADING_THRESHOLD": "7",
	}
	cfg := Default()
	applyEnv(&cfg, func(k string) string { return env[k] })

	assert.Equal(t, "https://base-mainnet.g.alchemy.com/v2/abc", cfg.RPC.Endpoint)
	assert.Equal(t, "scan-key", cfg.Explorer.APIKey)
	assert.Equal(t, "postgres://x", cfg.Storage.PostgresDSN)
	assert.False(t, cfg.Storage.UseMemory)
	assert.Equal(t, 7, cfg.DeepScan.WashTradingThreshold)
}

func TestValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.RPC.Endpoint = ""
	cfg.Storage.UseMemory = false
	cfg.Feed.Sources = []string{"kafka"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc.endpoint")
	assert.Contains(t, err.Error(), "postgres_dsn")
	assert.Contains(t, err.Error(), "kafka")
}
