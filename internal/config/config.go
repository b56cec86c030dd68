// Package config holds operator-level configuration for a shroud process:
// the rules file location, batch concurrency, and serve-mode settings. Set
// via env vars (SHROUD_*) or a shroud.config.yaml file; command-line flags
// win over both.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the SHROUD_ prefix
// (e.g. "rules_file" → SHROUD_RULES_FILE) and to a YAML field in
// shroud.config.yaml.
const (
	KeyRulesFile      = "rules_file"
	KeyWorkers        = "workers"
	KeyListenAddr     = "listen_addr"
	KeyRateLimitRPS   = "rate_limit_rps"
	KeyRateLimitBurst = "rate_limit_burst"
)

const (
	DefaultWorkers        = 8
	DefaultListenAddr     = ":8338"
	DefaultRateLimitRPS   = 50
	DefaultRateLimitBurst = 100
)

// Config holds resolved operator-level configuration for a shroud process.
type Config struct {
	RulesFile      string // optional recognizer rules file layered over the embedded defaults
	Workers        int    // batch pipeline concurrency
	ListenAddr     string // serve-mode listen address
	RateLimitRPS   int    // serve-mode requests per second
	RateLimitBurst int    // serve-mode burst size
}

func init() {
	viper.SetEnvPrefix("SHROUD")
	viper.AutomaticEnv()
	viper.SetDefault(KeyWorkers, DefaultWorkers)
	viper.SetDefault(KeyListenAddr, DefaultListenAddr)
	viper.SetDefault(KeyRateLimitRPS, DefaultRateLimitRPS)
	viper.SetDefault(KeyRateLimitBurst, DefaultRateLimitBurst)
}

// Load reads configuration from Viper (which merges env vars, config file,
// and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		RulesFile:      viper.GetString(KeyRulesFile),
		Workers:        viper.GetInt(KeyWorkers),
		ListenAddr:     viper.GetString(KeyListenAddr),
		RateLimitRPS:   viper.GetInt(KeyRateLimitRPS),
		RateLimitBurst: viper.GetInt(KeyRateLimitBurst),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive (got %d)", c.Workers)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate_limit_rps must be positive (got %d)", c.RateLimitRPS)
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		return fmt.Errorf("rate_limit_burst must be >= rate_limit_rps")
	}
	return nil
}
