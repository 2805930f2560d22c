package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"landscaper/internal/logging"
)

// DefaultConfigFile is read from Home when no --config is given.
const DefaultConfigFile = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string    `yaml:"home"`        // config directory, e.g. $HOME/.landscaper
	RelayURL    string    `yaml:"relay"`       // relay base URL, e.g. http://127.0.0.1:8080
	Participant string    `yaml:"participant"` // participant id; random when empty
	StoreDir    string    `yaml:"store"`       // landscape snapshots when offline
	Log         LogConfig `yaml:"log"`
}

// LogConfig is the YAML form of logging.Config.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	Quiet bool   `yaml:"quiet"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	home := ".landscaper"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".landscaper")
	}
	return Config{
		Home:     home,
		StoreDir: filepath.Join(home, "landscapes"),
		Log:      LogConfig{Level: "info"},
	}
}

// LoadConfig reads path over DefaultConfig. A missing file yields the
// defaults; fields absent from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = filepath.Join(cfg.Home, "landscapes")
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be fixed up with a default.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Logging converts the log section for logging.New.
func (c Config) Logging(service string) logging.Config {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{Level: lvl, JSON: c.Log.JSON, Quiet: c.Log.Quiet, Service: service}
}
