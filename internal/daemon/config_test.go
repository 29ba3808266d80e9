package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("NOOKSBRIDGE_HOME", t.TempDir())
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8420 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8420)
	}
	if !cfg.API.Metrics {
		t.Error("API.Metrics should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Data.Dir == "" {
		t.Error("Data.Dir should not be empty")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("NOOKSBRIDGE_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8420 {
		t.Errorf("API.Port = %d, want default 8420", cfg.API.Port)
	}
}

func TestSaveLoadConfig_Roundtrip(t *testing.T) {
	t.Setenv("NOOKSBRIDGE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9000
	cfg.API.Metrics = false
	cfg.Logging.Level = "debug"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", got.API.Port)
	}
	if got.API.Metrics {
		t.Error("API.Metrics should be false after roundtrip")
	}
	if got.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", got.Logging.Level)
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NOOKSBRIDGE_HOME", home)

	path := filepath.Join(home, "config.toml")
	if err := os.WriteFile(path, []byte("api = {{{"), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail on malformed TOML")
	}
}
