package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, float64(DefaultCarpetPricePerM2), cfg.Pricing.Carpet.PricePerM2)
	assert.Equal(t, DefaultCarpetDiscountThreshold, cfg.Pricing.Carpet.DiscountThreshold)
	assert.Equal(t, DefaultLanguage, cfg.DefaultLanguage)
	assert.Equal(t, float64(DefaultSofaPriceCorner), cfg.Pricing.Sofa.BasePrices["corner"])
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
listen_addr: ":9999"
pricing:
  carpet:
    price_per_m2: 20000
    discount_threshold: 4
    discount_percent: 15
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 20000.0, cfg.Pricing.Carpet.PricePerM2)
	assert.Equal(t, 4, cfg.Pricing.Carpet.DiscountThreshold)
	// Untouched sections keep defaults.
	assert.Equal(t, "cleanbot.db", cfg.SQLitePath)
	assert.Equal(t, float64(DefaultSofaPrice2Seat), cfg.Pricing.Sofa.BasePrices["2_seat"])
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLEANBOT_REDIS_ADDR", "localhost:6380")
	t.Setenv("CLEANBOT_ADMIN_TOKEN", "sekret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, "sekret", cfg.AdminToken)
}

func TestDebugEnvOverrides(t *testing.T) {
	t.Setenv("CLEANBOT_DEBUG", "true")
	t.Setenv("CLEANBOT_DEBUG_DOMAINS", "flow,prompt")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"flow", "prompt"}, cfg.DebugDomains)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"unknown language", func(c *Config) { c.DefaultLanguage = "en" }},
		{"zero carpet price", func(c *Config) { c.Pricing.Carpet.PricePerM2 = 0 }},
		{"threshold below one", func(c *Config) { c.Pricing.Carpet.DiscountThreshold = 0 }},
		{"discount over 100", func(c *Config) { c.Pricing.Carpet.DiscountPercent = 120 }},
		{"no sofa prices", func(c *Config) { c.Pricing.Sofa.BasePrices = nil }},
		{"missing fallback type", func(c *Config) {
			delete(c.Pricing.Sofa.BasePrices, "2_seat")
		}},
		{"negative sofa price", func(c *Config) {
			c.Pricing.Sofa.BasePrices["corner"] = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
