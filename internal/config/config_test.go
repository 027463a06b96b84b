package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"listharvest/internal/harvest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.Stealth)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigateTimeout)
	assert.Equal(t, "load", cfg.Browser.WaitFor)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, harvest.DefaultOptions(), cfg.HarvestOptions())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
browser:
  headless: false
  proxy: http://127.0.0.1:7890
  navigate_timeout: 90s
harvest:
  growth_timeout: 30s
  max_attempts: 4
  settle_delay: 500ms
  selectors:
    load_more: button.more
output:
  format: json
logging:
  level: debug
`)

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "http://127.0.0.1:7890", cfg.Browser.Proxy)
	assert.Equal(t, 90*time.Second, cfg.Browser.NavigateTimeout)
	assert.Equal(t, 30*time.Second, cfg.Harvest.GrowthTimeout)
	assert.Equal(t, 4, cfg.Harvest.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Harvest.SettleDelay)
	assert.Equal(t, "button.more", cfg.Harvest.Selectors.LoadMore)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.True(t, cfg.Browser.Stealth)
	assert.Equal(t, harvest.DefaultContainerTimeout, cfg.Harvest.ContainerTimeout)
	assert.Equal(t, harvest.DefaultSelectors().Anchor, cfg.Harvest.Selectors.Anchor)
}

func TestLoadFromFile_Errors(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := writeFile(t, "bad.yaml", "browser: [unterminated")
	err = cfg.LoadFromFile(bad)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LISTHARVEST_PROXY", "socks5://proxy:1080")
	t.Setenv("LISTHARVEST_HEADLESS", "false")
	t.Setenv("LISTHARVEST_STEALTH", "0")
	t.Setenv("LISTHARVEST_NAVIGATE_TIMEOUT", "2m")
	t.Setenv("LISTHARVEST_MAX_ATTEMPTS", "3")
	t.Setenv("LISTHARVEST_GROWTH_TIMEOUT", "45s")
	t.Setenv("LISTHARVEST_FORMAT", "csv")
	t.Setenv("LISTHARVEST_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "socks5://proxy:1080", cfg.Browser.Proxy)
	assert.False(t, cfg.Browser.Headless)
	assert.False(t, cfg.Browser.Stealth)
	assert.Equal(t, 2*time.Minute, cfg.Browser.NavigateTimeout)
	assert.Equal(t, 3, cfg.Harvest.MaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.Harvest.GrowthTimeout)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("LISTHARVEST_HEADLESS", "maybe")
	t.Setenv("LISTHARVEST_MAX_ATTEMPTS", "ten")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LISTHARVEST_HEADLESS")
	assert.Contains(t, err.Error(), "LISTHARVEST_MAX_ATTEMPTS")
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, harvest.DefaultMaxAttempts, cfg.Harvest.MaxAttempts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format: xml"},
		{"bad strategy", func(c *Config) { c.Browser.WaitFor = "idle" }, "invalid wait strategy: idle"},
		{"element without target", func(c *Config) { c.Browser.WaitFor = "element" }, "wait target is required"},
		{"time with selector", func(c *Config) {
			c.Browser.WaitFor = "time"
			c.Browser.WaitTarget = "#main"
		}, "must be milliseconds"},
		{"zero navigate timeout", func(c *Config) { c.Browser.NavigateTimeout = 0 }, "navigate timeout must be positive"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad harvest options", func(c *Config) { c.Harvest.MaxAttempts = 0 }, "max attempts must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_AcceptsWaitTargets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Browser.WaitFor = "time"
	cfg.Browser.WaitTarget = "1500"
	assert.NoError(t, cfg.Validate())

	cfg.Browser.WaitFor = "element"
	cfg.Browser.WaitTarget = "ul.ProductListingResults__productList"
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", "harvest:\n  max_attempts: 7\nlogging:\n  level: error\n")
	t.Setenv("LISTHARVEST_LOG_LEVEL", "debug")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Harvest.MaxAttempts)
	// environment wins over the file
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_PropagatesErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to load config file")

	t.Setenv("LISTHARVEST_NAVIGATE_TIMEOUT", "soon")
	_, err = Load(writeFile(t, "ok.yaml", "output:\n  format: json\n"))
	assert.ErrorContains(t, err, "failed to load environment variables")
}
