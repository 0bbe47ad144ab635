package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigMaxCPChainLength = "max-cp-chain-length"
	ConfigIterationBudget  = "iteration-budget"
	ConfigProgressInterval = "progress-interval"
	ConfigCPUProfile       = "cpu-profile"
	ConfigFile             = "config-file"
)

// Config wraps a viper instance. Values come, in increasing priority, from
// defaults, an optional config file, CATSEARCH_* environment variables and
// bound command-line flags.
type Config struct {
	viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	// 0 means no limit.
	c.SetDefault(ConfigMaxCPChainLength, 0)
	c.SetDefault(ConfigIterationBudget, 0)
	c.SetDefault(ConfigProgressInterval, 1_000_000)
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigFile, "")
}

// Load reads the environment and, if flags is not nil, binds it. When a
// config file was named, by flag or environment, it is read as well.
func (c *Config) Load(flags *pflag.FlagSet) error {
	c.Viper = *viper.New()
	c.setDefaults()
	c.SetEnvPrefix("catsearch")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if flags != nil {
		if err := c.BindPFlags(flags); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}
	}

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("config file %s not found: %w", path, err)
			}
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return nil
}

// SanitizedSettings returns every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
