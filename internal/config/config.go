// Package config handles the application configuration and the
// filesystem paths derived from it.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Tracking      TrackingConfig     `mapstructure:"tracking"`
		Notifications NotificationConfig `mapstructure:"notifications"`
	}

	// TrackingConfig holds the settings consumed by the sampling loop.
	TrackingConfig struct {
		PollInterval  time.Duration `mapstructure:"poll_interval"`
		IdleThreshold time.Duration `mapstructure:"idle_threshold"`
		ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
		SessionCmd    string        `mapstructure:"session_cmd"`
	}

	// NotificationConfig holds desktop notification settings.
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v1.0.0"

var (
	configDir      = "hwtracker"
	configFileName = "config.yml"
	dbFileName     = "hwtracker.db"
	logFileName    = "hwtracker.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func InitializePaths() {
	trackerEnv := strings.TrimSpace(os.Getenv("HWTRACKER_ENV"))
	if trackerEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", trackerEnv)
		dbFileName = fmt.Sprintf("hwtracker_%s.db", trackerEnv)
		logFileName = fmt.Sprintf("hwtracker_%s.log", trackerEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	return cfg, nil
}
