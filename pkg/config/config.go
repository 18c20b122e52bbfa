// Package config provides configuration loading and validation for the bot.
//
// Configuration is read once at startup from a YAML file, merged over
// defaults, validated, and from then on passed around BY VALUE. There is no
// runtime mutation: anything that changes while the bot runs (orders,
// sessions) belongs in a store, never in config.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default pricing values. These match the launch price list and are used when
// the config file leaves the pricing section out.
const (
	DefaultCarpetPricePerM2        = 15000
	DefaultCarpetDiscountThreshold = 3
	DefaultCarpetDiscountPercent   = 10

	DefaultSofaPrice2Seat    = 50000
	DefaultSofaPrice3Seat    = 70000
	DefaultSofaPriceCorner   = 90000
	DefaultSofaPriceArmchair = 30000
)

// Supported conversation languages.
const (
	LangRussian = "ru"
	LangUzbek   = "uz"

	DefaultLanguage = LangRussian
)

// CarpetPricing configures area-based pricing.
type CarpetPricing struct {
	PricePerM2        float64 `yaml:"price_per_m2"`
	DiscountThreshold int     `yaml:"discount_threshold"`
	DiscountPercent   float64 `yaml:"discount_percent"`
}

// SofaPricing configures type-based pricing. Keys are sofa type tags.
type SofaPricing struct {
	BasePrices map[string]float64 `yaml:"base_prices"`
}

// Pricing holds the full price list.
type Pricing struct {
	Carpet CarpetPricing `yaml:"carpet"`
	Sofa   SofaPricing   `yaml:"sofa"`
}

// Redis configures the optional redis session store. An empty Addr selects
// the in-memory store.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Contact is the office contact block shown in help texts and summaries.
type Contact struct {
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
	Hours   string `yaml:"hours"`
}

// Config is the root configuration.
type Config struct {
	ListenAddr      string  `yaml:"listen_addr"`  // websocket gateway + admin API
	MetricsAddr     string  `yaml:"metrics_addr"` // prometheus /metrics, empty disables
	SQLitePath      string  `yaml:"sqlite_path"`
	AdminToken      string  `yaml:"admin_token"` // bearer token for the admin API
	AdminChatIDs    []int64 `yaml:"admin_chat_ids"`
	DefaultLanguage string  `yaml:"default_language"`
	Redis           Redis   `yaml:"redis"`
	Contact         Contact `yaml:"contact"`
	Pricing         Pricing `yaml:"pricing"`

	Debug        bool     `yaml:"debug"`
	DebugDomains []string `yaml:"debug_domains"` // empty enables all domains
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":8080",
		MetricsAddr:     ":9090",
		SQLitePath:      "cleanbot.db",
		DefaultLanguage: DefaultLanguage,
		Contact: Contact{
			Phone:   "+998 90 123-45-67",
			Address: "Tashkent, Mirabad district",
			Hours:   "Mon-Sat: 9:00 - 19:00",
		},
		Pricing: Pricing{
			Carpet: CarpetPricing{
				PricePerM2:        DefaultCarpetPricePerM2,
				DiscountThreshold: DefaultCarpetDiscountThreshold,
				DiscountPercent:   DefaultCarpetDiscountPercent,
			},
			Sofa: SofaPricing{
				BasePrices: map[string]float64{
					"2_seat":   DefaultSofaPrice2Seat,
					"3_seat":   DefaultSofaPrice3Seat,
					"corner":   DefaultSofaPriceCorner,
					"armchair": DefaultSofaPriceArmchair,
				},
			},
		},
	}
}

// Load reads the config file at path, merges it over defaults, applies
// environment overrides and validates the result. A missing file is not an
// error: defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deploy environments override secrets and endpoints
// without touching the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLEANBOT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("CLEANBOT_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("CLEANBOT_ADMIN_TOKEN"); v != "" {
		cfg.AdminToken = v
	}
	if v := os.Getenv("CLEANBOT_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CLEANBOT_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("CLEANBOT_DEBUG"); v != "" {
		cfg.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CLEANBOT_DEBUG_DOMAINS"); v != "" {
		cfg.DebugDomains = strings.Split(v, ",")
	}
}

// Validate rejects configurations the bot cannot run with.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.SQLitePath == "" {
		return fmt.Errorf("config: sqlite_path must not be empty")
	}
	if c.DefaultLanguage != LangRussian && c.DefaultLanguage != LangUzbek {
		return fmt.Errorf("config: default_language must be %q or %q, got %q",
			LangRussian, LangUzbek, c.DefaultLanguage)
	}
	if c.Pricing.Carpet.PricePerM2 <= 0 {
		return fmt.Errorf("config: carpet price_per_m2 must be positive")
	}
	if c.Pricing.Carpet.DiscountThreshold < 1 {
		return fmt.Errorf("config: carpet discount_threshold must be at least 1")
	}
	if c.Pricing.Carpet.DiscountPercent < 0 || c.Pricing.Carpet.DiscountPercent > 100 {
		return fmt.Errorf("config: carpet discount_percent must be within 0..100")
	}
	if len(c.Pricing.Sofa.BasePrices) == 0 {
		return fmt.Errorf("config: sofa base_prices must not be empty")
	}
	if _, ok := c.Pricing.Sofa.BasePrices["2_seat"]; !ok {
		return fmt.Errorf("config: sofa base_prices must include the 2_seat fallback type")
	}
	for tag, price := range c.Pricing.Sofa.BasePrices {
		if price <= 0 {
			return fmt.Errorf("config: sofa base price for %q must be positive", tag)
		}
	}
	return nil
}
