// Package daemon manages the reward engine daemon lifecycle and
// configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Data    DataConfig    `toml:"data"`
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
}

// DataConfig controls storage.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	home := bridgeHome()
	return Config{
		Data: DataConfig{
			Dir: home,
		},
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8420,
			Metrics: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(home, "nooksbridge.log"),
		},
	}
}

// LoadConfig reads config from ~/.nooksbridge/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(bridgeHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.nooksbridge/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(bridgeHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// bridgeHome returns the data directory.
func bridgeHome() string {
	if env := os.Getenv("NOOKSBRIDGE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nooksbridge")
}
