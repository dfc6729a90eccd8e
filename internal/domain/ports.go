package domain

import (
	"context"
	"time"
)

// PriceCache caches recent token prices so repeated lookups skip the API.
type PriceCache interface {
	SetPrice(ctx context.Context, tokenID string, price MarketPrice, ttl time.Duration) error
	GetPrice(ctx context.Context, tokenID string) (MarketPrice, error)
}

// OrderArchive persists order fills fetched from the Dome API for local
// querying. Upsert keyed by order hash: re-syncing a window is idempotent.
type OrderArchive interface {
	Upsert(ctx context.Context, orders []Order) (int64, error)
	ListByUser(ctx context.Context, user string, limit int) ([]Order, error)
	LatestTimestamp(ctx context.Context, marketSlug string) (int64, error)
}
