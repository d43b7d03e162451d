package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig carries the per-liter prices used to express fuel
// variances in currency terms. Reconciliation only needs rough
// valuation, so prices live in a reloadable file rather than the DB.
type PricingConfig struct {
	PerLiter map[string]float64 `mapstructure:"perLiter"`
	Default  float64            `mapstructure:"default"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		PerLiter: map[string]float64{
			"petrol": 106.50,
			"diesel": 94.20,
			"cng":    78.00,
		},
		Default: 90.00,
	}
}

// PerLiterPrice resolves a fuel type to its configured price.
func (c PricingConfig) PerLiterPrice(fuelType string) float64 {
	if price, ok := c.PerLiter[strings.ToLower(strings.TrimSpace(fuelType))]; ok {
		return price
	}
	return c.Default
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/forecourt/config") // Volume-mounted config
	v.AddConfigPath("/etc/forecourt")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("FORECOURT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	cfg := DefaultPricingConfig()
	if fileFound {
		if err := v.UnmarshalKey("pricing", &cfg); err != nil {
			return nil, err
		}
		if err := validatePricingConfig(cfg); err != nil {
			return nil, err
		}
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated PricingConfig
			if err := v.UnmarshalKey("pricing", &updated); err != nil {
				log.Printf("[pricing-config] reload failed: %v", err)
				return
			}
			if err := validatePricingConfig(updated); err != nil {
				log.Printf("[pricing-config] invalid config ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[pricing-config] reloaded from %s", e.Name)
		})
	}

	return holder, nil
}

// NewStaticPricingConfigHolder wraps a fixed config with no file
// watching. Used by tests and tooling.
func NewStaticPricingConfigHolder(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if len(cfg.PerLiter) == 0 {
		return errors.New("pricing.perLiter cannot be empty")
	}
	for fuel, price := range cfg.PerLiter {
		if price <= 0 {
			return errors.New("pricing.perLiter." + fuel + " must be positive")
		}
	}
	return nil
}
