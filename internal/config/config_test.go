package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		viper.Set(KeyWorkers, DefaultWorkers)
		viper.Set(KeyListenAddr, DefaultListenAddr)
		viper.Set(KeyRateLimitRPS, DefaultRateLimitRPS)
		viper.Set(KeyRateLimitBurst, DefaultRateLimitBurst)
		viper.Set(KeyRulesFile, "")
	})
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultRateLimitRPS, cfg.RateLimitRPS)
	assert.Equal(t, DefaultRateLimitBurst, cfg.RateLimitBurst)
	assert.Empty(t, cfg.RulesFile)
}

func TestLoadFromEnv(t *testing.T) {
	resetViper(t)
	t.Setenv("SHROUD_WORKERS", "3")
	t.Setenv("SHROUD_RULES_FILE", "/etc/shroud/rules.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/etc/shroud/rules.yaml", cfg.RulesFile)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	resetViper(t)

	viper.Set(KeyWorkers, 0)
	_, err := Load()
	assert.Error(t, err)
	viper.Set(KeyWorkers, DefaultWorkers)

	viper.Set(KeyRateLimitRPS, -1)
	_, err = Load()
	assert.Error(t, err)
	viper.Set(KeyRateLimitRPS, DefaultRateLimitRPS)

	viper.Set(KeyRateLimitBurst, 1)
	_, err = Load()
	assert.Error(t, err)
}
