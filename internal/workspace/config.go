// Package workspace wires a tally invocation together: runtime config, the
// store backend, logging, metrics and the tracker.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tally-cli/tally/internal/domain"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// ConfigFile is the name of the runtime config inside the tally home.
const ConfigFile = "config.toml"

// Config holds the runtime configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Tracking  domain.Settings `toml:"tracking"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// StorageConfig selects where tasks are kept.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

// LoggingConfig controls diagnostics.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig controls the Prometheus textfile.
type TelemetryConfig struct {
	Textfile string `toml:"textfile"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Dir:     tallyHome(),
		},
		Tracking: domain.DefaultSettings(),
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("storage.backend %q: want %s or %s", c.Storage.Backend, BackendSQLite, BackendJSON)
	}
	if _, ok := levels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level)
	}
	f, err := domain.ParseDateFormat(c.Tracking.DateFormat)
	if err != nil {
		return fmt.Errorf("tracking.date_format: %w", err)
	}
	if !f.HasDate() {
		return fmt.Errorf("tracking.date_format %q has no date tokens", c.Tracking.DateFormat)
	}
	return nil
}

// ConfigPath returns $TALLY_HOME/config.toml.
func ConfigPath() string {
	return filepath.Join(tallyHome(), ConfigFile)
}

// LoadConfig reads $TALLY_HOME/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	return LoadConfigFile(ConfigPath())
}

// LoadConfigFile reads the config at path. A missing file yields defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = tallyHome()
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Tracking.DateFormat == "" {
		cfg.Tracking.DateFormat = domain.DefaultDatePattern
	}
	return cfg, cfg.Validate()
}

// SaveConfig writes the config to $TALLY_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// tallyHome returns the tally data directory.
func tallyHome() string {
	if env := os.Getenv("TALLY_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tally")
}
