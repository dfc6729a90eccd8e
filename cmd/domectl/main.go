// Command domectl is the command-line entry point for the Dome escrow SDK:
// it signs and verifies fee authorizations, builds redeem transactions, and
// queries the Dome API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kurushdubash/dome-sdk-go/internal/cache/redis"
	"github.com/kurushdubash/dome-sdk-go/internal/config"
	"github.com/kurushdubash/dome-sdk-go/internal/crypto"
	"github.com/kurushdubash/dome-sdk-go/internal/ctf"
	"github.com/kurushdubash/dome-sdk-go/internal/domain"
	"github.com/kurushdubash/dome-sdk-go/internal/escrow"
	"github.com/kurushdubash/dome-sdk-go/internal/platform/dome"
	"github.com/kurushdubash/dome-sdk-go/internal/store/postgres"
)

const usage = `usage: domectl [-config path] <command> [flags]

commands:
  sign-order-fee   create and sign an order fee authorization
  sign-perf-fee    create and sign a performance fee authorization
  verify           verify a signed authorization from a JSON file
  redeem           build redeemPositions calldata for a winning position
  price            fetch a token's market price
  orders-sync      archive a market's order fills into PostgreSQL
  encrypt-key      write the configured private key as an encrypted key file
`

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	if err := run(ctx, logger, cfg, command, args); err != nil {
		logger.Error("command failed",
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	// A missing default config file is fine; flags and DOME_* variables can
	// carry everything.
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "config.toml" {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, command string, args []string) error {
	switch command {
	case "sign-order-fee":
		return signOrderFee(ctx, logger, cfg, args)
	case "sign-perf-fee":
		return signPerfFee(ctx, logger, cfg, args)
	case "verify":
		return verify(cfg, args)
	case "redeem":
		return redeem(args)
	case "price":
		return price(ctx, logger, cfg, args)
	case "orders-sync":
		return ordersSync(ctx, logger, cfg, args)
	case "encrypt-key":
		return encryptKey(logger, cfg, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// newSigner selects the signing backend: Privy when configured, otherwise a
// local key from the wallet config.
func newSigner(cfg *config.Config) (crypto.TypedDataSigner, error) {
	if cfg.Privy.WalletID != "" {
		signer, err := crypto.NewPrivySigner(crypto.PrivyConfig{
			AppID:         cfg.Privy.AppID,
			AppSecret:     cfg.Privy.AppSecret,
			WalletID:      cfg.Privy.WalletID,
			WalletAddress: cfg.Privy.WalletAddress,
			BaseURL:       cfg.Privy.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return signer, nil
	}

	key, err := crypto.LoadKey(crypto.KeyConfig{
		RawPrivateKey:    cfg.Wallet.PrivateKey,
		EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
		KeyPassword:      cfg.Wallet.KeyPassword,
	})
	if err != nil {
		return nil, err
	}
	signer, err := crypto.NewLocalSigner(key)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func newEscrowClient(cfg *config.Config) (*escrow.Client, error) {
	if cfg.Escrow.Address == "" {
		return nil, fmt.Errorf("escrow.address is not configured")
	}
	return escrow.NewClient(cfg.Escrow.Address, cfg.Escrow.ChainID)
}

func signOrderFee(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sign-order-fee", flag.ExitOnError)
	orderID := fs.String("order-id", "", "bytes32 order ID (hex)")
	orderSize := fs.Int64("order-size", 0, "order size in USDC (6 decimals)")
	domeBps := fs.Int64("dome-bps", 0, "dome fee rate in basis points")
	affiliateBps := fs.Int64("affiliate-bps", 0, "affiliate fee rate in basis points")
	deadline := fs.Int64("deadline-seconds", escrow.DefaultDeadlineSeconds, "authorization validity in seconds")
	fs.Parse(args)

	if *orderID == "" {
		return fmt.Errorf("-order-id is required")
	}

	fees, err := escrow.CalculateOrderFees(big.NewInt(*orderSize), *domeBps, *affiliateBps)
	if err != nil {
		return err
	}
	logger.Info("calculated order fees",
		slog.String("dome", escrow.FormatUSDC(fees.DomeFee)),
		slog.String("affiliate", escrow.FormatUSDC(fees.AffiliateFee)),
		slog.String("total", escrow.FormatUSDC(fees.TotalFee)),
	)

	client, err := newEscrowClient(cfg)
	if err != nil {
		return err
	}
	signer, err := newSigner(cfg)
	if err != nil {
		return err
	}

	signed, err := client.SignOrderFeeAuth(ctx, signer, *orderID,
		fees.DomeFee, fees.AffiliateFee, *deadline)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"order_id":         signed.OrderID,
		"payer":            signed.Payer,
		"dome_amount":      signed.DomeAmount.String(),
		"affiliate_amount": signed.AffiliateAmount.String(),
		"chain_id":         signed.ChainID,
		"deadline":         signed.Deadline,
		"signature":        signed.Signature,
	})
}

func signPerfFee(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sign-perf-fee", flag.ExitOnError)
	positionID := fs.String("position-id", "", "bytes32 position ID (hex)")
	winnings := fs.Int64("winnings", 0, "expected winnings in USDC (6 decimals)")
	domeBps := fs.Int64("dome-bps", 0, "dome fee rate in basis points")
	affiliateBps := fs.Int64("affiliate-bps", 0, "affiliate fee rate in basis points")
	deadline := fs.Int64("deadline-seconds", escrow.DefaultDeadlineSeconds, "authorization validity in seconds")
	fs.Parse(args)

	if *positionID == "" {
		return fmt.Errorf("-position-id is required")
	}

	fees, err := escrow.CalculatePerformanceFees(big.NewInt(*winnings), *domeBps, *affiliateBps)
	if err != nil {
		return err
	}
	logger.Info("calculated performance fees",
		slog.String("dome", escrow.FormatUSDC(fees.DomeFee)),
		slog.String("affiliate", escrow.FormatUSDC(fees.AffiliateFee)),
		slog.String("total", escrow.FormatUSDC(fees.TotalFee)),
	)

	client, err := newEscrowClient(cfg)
	if err != nil {
		return err
	}
	signer, err := newSigner(cfg)
	if err != nil {
		return err
	}

	signed, err := client.SignPerformanceFeeAuth(ctx, signer, *positionID,
		big.NewInt(*winnings), fees.DomeFee, fees.AffiliateFee, *deadline)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"position_id":       signed.PositionID,
		"payer":             signed.Payer,
		"expected_winnings": signed.ExpectedWinnings.String(),
		"dome_amount":       signed.DomeAmount.String(),
		"affiliate_amount":  signed.AffiliateAmount.String(),
		"chain_id":          signed.ChainID,
		"deadline":          signed.Deadline,
		"signature":         signed.Signature,
	})
}

// signedAuthFile is the JSON shape verify reads: the output of the two sign
// commands plus the kind discriminator.
type signedAuthFile struct {
	Kind             string `json:"kind"` // "order" or "performance"
	OrderID          string `json:"order_id"`
	PositionID       string `json:"position_id"`
	Payer            string `json:"payer"`
	ExpectedWinnings string `json:"expected_winnings"`
	DomeAmount       string `json:"dome_amount"`
	AffiliateAmount  string `json:"affiliate_amount"`
	ChainID          int64  `json:"chain_id"`
	Deadline         int64  `json:"deadline"`
	Signature        string `json:"signature"`
}

func verify(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	file := fs.String("file", "", "path to a signed authorization JSON file")
	expectedSigner := fs.String("signer", "", "expected signer address")
	fs.Parse(args)

	if *file == "" || *expectedSigner == "" {
		return fmt.Errorf("-file and -signer are required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *file, err)
	}
	var auth signedAuthFile
	if err := json.Unmarshal(data, &auth); err != nil {
		return fmt.Errorf("parsing %s: %w", *file, err)
	}

	client, err := newEscrowClient(cfg)
	if err != nil {
		return err
	}

	res, err := verifyAuth(client, auth, *expectedSigner)
	if err != nil {
		return err
	}

	out := map[string]any{
		"status": res.Status.String(),
		"ok":     res.OK(),
	}
	if res.Recovered != "" {
		out["recovered"] = res.Recovered
	}
	if res.Err != nil {
		out["error"] = res.Err.Error()
	}
	return printJSON(out)
}

func verifyAuth(client *escrow.Client, auth signedAuthFile, expectedSigner string) (escrow.VerifyResult, error) {
	dome, ok := new(big.Int).SetString(auth.DomeAmount, 10)
	if !ok {
		return escrow.VerifyResult{}, fmt.Errorf("invalid dome_amount %q", auth.DomeAmount)
	}
	affiliate, ok := new(big.Int).SetString(auth.AffiliateAmount, 10)
	if !ok {
		return escrow.VerifyResult{}, fmt.Errorf("invalid affiliate_amount %q", auth.AffiliateAmount)
	}

	kind := auth.Kind
	if kind == "" && auth.PositionID != "" {
		kind = "performance"
	}

	switch kind {
	case "", "order":
		signed := domain.SignedOrderFeeAuthorization{
			OrderFeeAuthorization: domain.OrderFeeAuthorization{
				OrderID:         auth.OrderID,
				Payer:           auth.Payer,
				DomeAmount:      dome,
				AffiliateAmount: affiliate,
				ChainID:         auth.ChainID,
				Deadline:        auth.Deadline,
			},
			Signature: auth.Signature,
		}
		return client.VerifyOrderFeeSignature(signed, expectedSigner), nil
	case "performance":
		winnings, ok := new(big.Int).SetString(auth.ExpectedWinnings, 10)
		if !ok {
			return escrow.VerifyResult{}, fmt.Errorf("invalid expected_winnings %q", auth.ExpectedWinnings)
		}
		signed := domain.SignedPerformanceFeeAuthorization{
			PerformanceFeeAuthorization: domain.PerformanceFeeAuthorization{
				PositionID:       auth.PositionID,
				Payer:            auth.Payer,
				ExpectedWinnings: winnings,
				DomeAmount:       dome,
				AffiliateAmount:  affiliate,
				ChainID:          auth.ChainID,
				Deadline:         auth.Deadline,
			},
			Signature: auth.Signature,
		}
		return client.VerifyPerformanceFeeSignature(signed, expectedSigner), nil
	default:
		return escrow.VerifyResult{}, fmt.Errorf("unknown authorization kind %q", auth.Kind)
	}
}

func redeem(args []string) error {
	fs := flag.NewFlagSet("redeem", flag.ExitOnError)
	conditionID := fs.String("condition-id", "", "bytes32 condition ID (hex)")
	outcomeIndex := fs.Int("outcome-index", 0, "winning outcome index")
	fs.Parse(args)

	if *conditionID == "" {
		return fmt.Errorf("-condition-id is required")
	}

	tx, err := ctf.BuildRedeemTransaction(*conditionID, *outcomeIndex)
	if err != nil {
		return err
	}
	return printJSON(tx)
}

func price(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	tokenID := fs.String("token-id", "", "outcome token ID")
	atTime := fs.Int64("at-time", 0, "historical timestamp (unix seconds, 0 = now)")
	cacheTTL := fs.Duration("cache-ttl", time.Minute, "redis cache TTL (0 disables the cache)")
	fs.Parse(args)

	if *tokenID == "" {
		return fmt.Errorf("-token-id is required")
	}

	api, err := dome.NewClient(cfg.API.Key, cfg.API.BaseURL)
	if err != nil {
		return err
	}

	// Current prices go through the cache when Redis is reachable;
	// historical lookups always hit the API.
	if *atTime == 0 && *cacheTTL > 0 {
		if cache := openPriceCache(ctx, logger, cfg); cache != nil {
			if cached, err := cache.GetPrice(ctx, *tokenID); err == nil {
				logger.Debug("price cache hit", slog.String("token_id", *tokenID))
				return printJSON(cached)
			}
			p, err := api.GetMarketPrice(ctx, *tokenID, 0)
			if err != nil {
				return err
			}
			if err := cache.SetPrice(ctx, *tokenID, p, *cacheTTL); err != nil {
				logger.Warn("price cache write failed", slog.String("error", err.Error()))
			}
			return printJSON(p)
		}
	}

	p, err := api.GetMarketPrice(ctx, *tokenID, *atTime)
	if err != nil {
		return err
	}
	return printJSON(p)
}

func openPriceCache(ctx context.Context, logger *slog.Logger, cfg *config.Config) *redis.PriceCache {
	client, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		logger.Debug("redis unavailable, skipping price cache", slog.String("error", err.Error()))
		return nil
	}
	return redis.NewPriceCache(client)
}

func ordersSync(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("orders-sync", flag.ExitOnError)
	marketSlug := fs.String("market-slug", "", "market to sync")
	pageSize := fs.Int("page-size", 100, "orders per API page")
	fs.Parse(args)

	if *marketSlug == "" {
		return fmt.Errorf("-market-slug is required")
	}

	api, err := dome.NewClient(cfg.API.Key, cfg.API.BaseURL)
	if err != nil {
		return err
	}

	db, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	store := postgres.NewOrderStore(db.Pool())
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	since, err := store.LatestTimestamp(ctx, *marketSlug)
	if err != nil {
		return err
	}
	logger.Info("syncing order fills",
		slog.String("market_slug", *marketSlug),
		slog.Int64("since", since),
	)

	var total int64
	offset := 0
	for {
		page, err := api.GetOrders(ctx, dome.GetOrdersParams{
			MarketSlug: *marketSlug,
			StartTime:  since,
			Limit:      *pageSize,
			Offset:     offset,
		})
		if err != nil {
			return err
		}

		written, err := store.Upsert(ctx, page.Orders)
		if err != nil {
			return err
		}
		total += written

		if !page.Pagination.HasMore || len(page.Orders) == 0 {
			break
		}
		offset += len(page.Orders)
	}

	logger.Info("sync complete",
		slog.String("market_slug", *marketSlug),
		slog.Int64("written", total),
	)
	return nil
}

// encryptKey encrypts the wallet.private_key from the configuration (or the
// DOME_WALLET_PRIVATE_KEY variable) with wallet.key_password and writes the
// resulting JSON file, ready to be referenced by wallet.encrypted_key_path.
func encryptKey(logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("encrypt-key", flag.ExitOnError)
	out := fs.String("out", "encrypted-key.json", "output path for the encrypted key file")
	fs.Parse(args)

	if cfg.Wallet.PrivateKey == "" {
		return fmt.Errorf("wallet.private_key is not configured")
	}
	if cfg.Wallet.KeyPassword == "" {
		return fmt.Errorf("wallet.key_password is not configured")
	}

	blob, err := crypto.EncryptKey(cfg.Wallet.PrivateKey, cfg.Wallet.KeyPassword)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, blob, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	logger.Info("encrypted key written", slog.String("path", *out))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
