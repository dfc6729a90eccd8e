// Package config defines the top-level configuration for the Dome SDK tools
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by DOME_* environment variables.
type Config struct {
	API      APIConfig      `toml:"api"`
	Wallet   WalletConfig   `toml:"wallet"`
	Privy    PrivyConfig    `toml:"privy"`
	Escrow   EscrowConfig   `toml:"escrow"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	LogLevel string         `toml:"log_level"`
}

// APIConfig holds Dome API credentials and endpoint.
type APIConfig struct {
	Key     string `toml:"key"`
	BaseURL string `toml:"base_url"`
}

// WalletConfig holds local signing key material. Exactly one of PrivateKey
// or EncryptedKeyPath should be set when local signing is used.
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// PrivyConfig holds custodial wallet credentials for remote signing.
type PrivyConfig struct {
	AppID         string `toml:"app_id"`
	AppSecret     string `toml:"app_secret"`
	WalletID      string `toml:"wallet_id"`
	WalletAddress string `toml:"wallet_address"`
	BaseURL       string `toml:"base_url"`
}

// EscrowConfig identifies the fee escrow contract deployment.
type EscrowConfig struct {
	Address string `toml:"address"`
	ChainID int64  `toml:"chain_id"`
}

// PostgresConfig holds PostgreSQL connection parameters for the order
// archive.
type PostgresConfig struct {
	DSN          string `toml:"dsn"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Database     string `toml:"database"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	SSLMode      string `toml:"ssl_mode"`
	PoolMaxConns int    `toml:"pool_max_conns"`
	PoolMinConns int    `toml:"pool_min_conns"`
}

// RedisConfig holds Redis connection parameters for the price cache.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// Defaults returns the built-in configuration, suitable as the base layer
// under a TOML file and environment overrides.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.domeapi.io/v1",
		},
		Escrow: EscrowConfig{
			ChainID: 137,
		},
		Postgres: PostgresConfig{
			Port:         5432,
			SSLMode:      "disable",
			PoolMaxConns: 4,
			PoolMinConns: 1,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 4,
		},
		LogLevel: "info",
	}
}

// Validate checks the parts of the configuration whose absence or malformed
// values would only surface deep inside a signing or API call.
func (c *Config) Validate() error {
	var problems []string

	if c.Escrow.Address != "" && !common.IsHexAddress(c.Escrow.Address) {
		problems = append(problems, fmt.Sprintf("escrow.address %q is not a valid address", c.Escrow.Address))
	}
	if c.Escrow.ChainID <= 0 {
		problems = append(problems, "escrow.chain_id must be positive")
	}

	if c.Privy.AppID != "" || c.Privy.WalletID != "" {
		if c.Privy.AppSecret == "" {
			problems = append(problems, "privy.app_secret is required when privy is configured")
		}
		if c.Privy.WalletAddress == "" {
			problems = append(problems, "privy.wallet_address is required when privy is configured")
		} else if !common.IsHexAddress(c.Privy.WalletAddress) {
			problems = append(problems, fmt.Sprintf("privy.wallet_address %q is not a valid address", c.Privy.WalletAddress))
		}
	}

	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		problems = append(problems, "wallet.key_password is required with wallet.encrypted_key_path")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
