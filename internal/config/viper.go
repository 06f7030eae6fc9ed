package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyPollInterval         = "tracking.poll_interval"
	keyIdleThreshold        = "tracking.idle_threshold"
	keyProbeTimeout         = "tracking.probe_timeout"
	keySessionCmd           = "tracking.session_cmd"
	keyNotificationsEnabled = "notifications.enabled"
)

// WithViperConfig returns an Option that loads configuration from Viper.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with default values.
func setupViper(v *viper.Viper) {
	v.SetDefault(keyPollInterval, "1s")
	v.SetDefault(keyIdleThreshold, "300s")
	v.SetDefault(keyProbeTimeout, "2s")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyNotificationsEnabled, true)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unmarshalling config failed: %w", err)
	}

	return nil
}
