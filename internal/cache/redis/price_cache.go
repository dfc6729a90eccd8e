package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// PriceCache implements domain.PriceCache using Redis hashes. Each token's
// price is stored at key "price:{tokenID}" with fields "price" and "at_time",
// expiring after the caller's TTL so stale prices fall out on their own.
type PriceCache struct {
	rdb *redis.Client
}

// NewPriceCache creates a PriceCache backed by the given Client.
func NewPriceCache(c *Client) *PriceCache {
	return &PriceCache{rdb: c.Underlying()}
}

func priceKey(tokenID string) string {
	return "price:" + tokenID
}

// SetPrice stores the price for a token with the given TTL.
func (pc *PriceCache) SetPrice(ctx context.Context, tokenID string, price domain.MarketPrice, ttl time.Duration) error {
	key := priceKey(tokenID)
	fields := map[string]interface{}{
		"price":   strconv.FormatFloat(price.Price, 'f', -1, 64),
		"at_time": strconv.FormatInt(price.AtTime, 10),
	}

	pipe := pc.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set price %s: %w", tokenID, err)
	}
	return nil
}

// GetPrice retrieves the cached price for a token. It returns
// domain.ErrNotFound when the key is missing or expired.
func (pc *PriceCache) GetPrice(ctx context.Context, tokenID string) (domain.MarketPrice, error) {
	vals, err := pc.rdb.HGetAll(ctx, priceKey(tokenID)).Result()
	if err != nil {
		return domain.MarketPrice{}, fmt.Errorf("redis: get price %s: %w", tokenID, err)
	}
	if len(vals) == 0 {
		return domain.MarketPrice{}, domain.ErrNotFound
	}

	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return domain.MarketPrice{}, fmt.Errorf("redis: parse price %s: %w", tokenID, err)
	}
	atTime, err := strconv.ParseInt(vals["at_time"], 10, 64)
	if err != nil {
		return domain.MarketPrice{}, fmt.Errorf("redis: parse at_time %s: %w", tokenID, err)
	}

	return domain.MarketPrice{Price: price, AtTime: atTime}, nil
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)
