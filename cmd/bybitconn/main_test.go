package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coachpo/bybitconn/config"
)

func TestLoadSettingsLayersDotenvAndTopicFlag(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BYBIT_ENV=testnet\nBYBIT_RETRY_DELAY=250ms\n"), 0o600))
	t.Setenv("BYBIT_CONFIG", "")
	t.Cleanup(func() {
		_ = os.Unsetenv("BYBIT_ENV")
		_ = os.Unsetenv("BYBIT_RETRY_DELAY")
	})

	cfg, err := loadSettings(flags{envFile: envFile, topics: " trade.BTCUSD , ,instrument_info.100ms.BTCUSD"})
	require.NoError(t, err)
	require.Equal(t, config.EnvTestnet, cfg.Environment)
	require.Equal(t, 250*time.Millisecond, cfg.REST.RetryDelay)
	require.Equal(t, []string{"trade.BTCUSD", "instrument_info.100ms.BTCUSD"}, cfg.Stream.Subscriptions)
}

func TestLoadSettingsToleratesMissingDotenv(t *testing.T) {
	t.Setenv("BYBIT_CONFIG", "")
	cfg, err := loadSettings(flags{envFile: filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

func TestLoadSettingsReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bybit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rest:\n  segment: spot\n"), 0o600))

	cfg, err := loadSettings(flags{configPath: path, envFile: filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)
	require.Equal(t, "spot", cfg.REST.Segment)
}
