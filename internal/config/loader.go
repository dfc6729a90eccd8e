package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies DOME_* environment variable overrides, and
// returns the final Config. An empty path skips the file and uses defaults
// plus environment only. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known DOME_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── API ──
	setStr(&cfg.API.Key, "DOME_API_KEY")
	setStr(&cfg.API.BaseURL, "DOME_API_BASE_URL")

	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "DOME_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.EncryptedKeyPath, "DOME_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "DOME_WALLET_KEY_PASSWORD")

	// ── Privy ──
	setStr(&cfg.Privy.AppID, "DOME_PRIVY_APP_ID")
	setStr(&cfg.Privy.AppSecret, "DOME_PRIVY_APP_SECRET")
	setStr(&cfg.Privy.WalletID, "DOME_PRIVY_WALLET_ID")
	setStr(&cfg.Privy.WalletAddress, "DOME_PRIVY_WALLET_ADDRESS")
	setStr(&cfg.Privy.BaseURL, "DOME_PRIVY_BASE_URL")

	// ── Escrow ──
	setStr(&cfg.Escrow.Address, "DOME_ESCROW_ADDRESS")
	setInt64(&cfg.Escrow.ChainID, "DOME_ESCROW_CHAIN_ID")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "DOME_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "DOME_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "DOME_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "DOME_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "DOME_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "DOME_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "DOME_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "DOME_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "DOME_POSTGRES_POOL_MIN_CONNS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "DOME_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "DOME_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "DOME_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "DOME_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "DOME_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "DOME_REDIS_TLS_ENABLED")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "DOME_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
