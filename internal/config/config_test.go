package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
log_level = "debug"

[api]
key = "file-key"

[escrow]
address = "0x1111111111111111111111111111111111111111"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DOME_API_KEY", "env-key")
	t.Setenv("DOME_ESCROW_CHAIN_ID", "80002")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.Key != "env-key" {
		t.Errorf("api key = %q, env override lost", cfg.API.Key)
	}
	if cfg.API.BaseURL != "https://api.domeapi.io/v1" {
		t.Errorf("base URL default lost: %q", cfg.API.BaseURL)
	}
	if cfg.Escrow.ChainID != 80002 {
		t.Errorf("chain ID = %d, want env override 80002", cfg.Escrow.ChainID)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Escrow.ChainID != 137 {
		t.Errorf("chain ID default = %d, want 137", cfg.Escrow.ChainID)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Escrow.Address = "not-an-address"
	if err := cfg.Validate(); err == nil {
		t.Error("bad escrow address accepted")
	}

	cfg = Defaults()
	cfg.Privy.AppID = "app"
	if err := cfg.Validate(); err == nil {
		t.Error("partial privy config accepted")
	}

	cfg = Defaults()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log level accepted")
	}
}
