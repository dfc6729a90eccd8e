package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// OrderStore archives order fills fetched from the Dome API. It implements
// domain.OrderArchive: fills are keyed by order hash so re-syncing an
// overlapping window never duplicates rows.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates an OrderStore backed by the given connection pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// EnsureSchema creates the order_fills table if it does not exist yet.
func (s *OrderStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS order_fills (
			order_hash        TEXT PRIMARY KEY,
			token_id          TEXT NOT NULL,
			side              TEXT NOT NULL,
			market_slug       TEXT NOT NULL,
			condition_id      TEXT NOT NULL,
			shares            BIGINT NOT NULL,
			shares_normalized DOUBLE PRECISION NOT NULL,
			price             DOUBLE PRECISION NOT NULL,
			tx_hash           TEXT NOT NULL,
			title             TEXT NOT NULL,
			ts                BIGINT NOT NULL,
			user_address      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS order_fills_user_idx ON order_fills (user_address, ts DESC);
		CREATE INDEX IF NOT EXISTS order_fills_market_idx ON order_fills (market_slug, ts DESC)`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure order_fills schema: %w", err)
	}
	return nil
}

// Upsert inserts or updates the given fills and returns how many rows were
// written.
func (s *OrderStore) Upsert(ctx context.Context, orders []domain.Order) (int64, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO order_fills (
			order_hash, token_id, side, market_slug, condition_id,
			shares, shares_normalized, price, tx_hash, title, ts, user_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (order_hash) DO UPDATE SET
			shares = EXCLUDED.shares,
			shares_normalized = EXCLUDED.shares_normalized,
			price = EXCLUDED.price,
			title = EXCLUDED.title`

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(query,
			o.OrderHash, o.TokenID, o.Side, o.MarketSlug, o.ConditionID,
			o.Shares, o.SharesNormalized, o.Price, o.TxHash, o.Title,
			o.Timestamp, o.User,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	var written int64
	for range orders {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("postgres: upsert order fills: %w", err)
		}
		written += tag.RowsAffected()
	}
	return written, nil
}

const fillSelectCols = `order_hash, token_id, side, market_slug, condition_id,
	shares, shares_normalized, price, tx_hash, title, ts, user_address`

// ListByUser returns the most recent fills for one user, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, user string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(
		`SELECT %s FROM order_fills WHERE user_address = $1 ORDER BY ts DESC LIMIT $2`,
		fillSelectCols,
	)

	rows, err := s.pool.Query(ctx, query, user, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list fills for %s: %w", user, err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.OrderHash, &o.TokenID, &o.Side, &o.MarketSlug, &o.ConditionID,
			&o.Shares, &o.SharesNormalized, &o.Price, &o.TxHash, &o.Title,
			&o.Timestamp, &o.User,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan fill: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate fills: %w", err)
	}
	return orders, nil
}

// LatestTimestamp returns the newest archived fill timestamp for a market,
// or zero when nothing is archived yet. Sync jobs use it to resume where the
// previous run stopped.
func (s *OrderStore) LatestTimestamp(ctx context.Context, marketSlug string) (int64, error) {
	const query = `SELECT COALESCE(MAX(ts), 0) FROM order_fills WHERE market_slug = $1`

	var ts int64
	if err := s.pool.QueryRow(ctx, query, marketSlug).Scan(&ts); err != nil {
		return 0, fmt.Errorf("postgres: latest fill timestamp for %s: %w", marketSlug, err)
	}
	return ts, nil
}

// Compile-time interface check.
var _ domain.OrderArchive = (*OrderStore)(nil)
