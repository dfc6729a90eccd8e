package dome

import (
	"encoding/json"
	"fmt"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

// GetOrdersParams filters the order history query. Zero values mean "not
// set" and are omitted from the request.
type GetOrdersParams struct {
	MarketSlug  string
	ConditionID string
	TokenID     string
	StartTime   int64
	EndTime     int64
	Limit       int
	Offset      int
	User        string
}

// OrdersResponse is one page of order fills.
type OrdersResponse struct {
	Orders     []domain.Order    `json:"orders"`
	Pagination domain.Pagination `json:"pagination"`
}

// GetCandlesticksParams selects a candlestick window for one condition.
// Interval is in minutes (1, 60, or 1440).
type GetCandlesticksParams struct {
	ConditionID string
	StartTime   int64
	EndTime     int64
	Interval    int
}

// GetWalletPnLParams selects a PnL series for one wallet. Granularity is
// "day", "week", "month", "year", or "all".
type GetWalletPnLParams struct {
	WalletAddress string
	Granularity   string
	StartTime     int64
	EndTime       int64
}

// GetMatchingMarketsParams looks up equivalent markets across platforms.
// Exactly one of the slices should be populated.
type GetMatchingMarketsParams struct {
	PolymarketMarketSlugs []string
	KalshiEventTickers    []string
}

// MatchingMarketsResponse maps each queried market to its matches on other
// platforms.
type MatchingMarketsResponse struct {
	Markets map[string][]domain.MatchedMarket `json:"markets"`
}

// GetMatchingMarketsBySportParams selects all matched markets for one sport
// ("nfl" or "mlb") on one date (YYYY-MM-DD).
type GetMatchingMarketsBySportParams struct {
	Sport string
	Date  string
}

// MatchingMarketsBySportResponse is the by-sport variant of
// MatchingMarketsResponse, echoing the queried sport and date.
type MatchingMarketsBySportResponse struct {
	Markets map[string][]domain.MatchedMarket `json:"markets"`
	Sport   string                            `json:"sport"`
	Date    string                            `json:"date"`
}

// apiError is the Dome API error envelope.
type apiError struct {
	ErrorCode string `json:"error"`
	Message   string `json:"message"`
}

// tokenMetadata trails the candle list in each candlestick tuple.
type tokenMetadata struct {
	TokenID string `json:"token_id"`
}

// candlesticksEnvelope decodes the candlesticks wire format: a list of
// two-element tuples, each holding a candle array and the token metadata it
// belongs to.
type candlesticksEnvelope struct {
	Candlesticks []json.RawMessage `json:"candlesticks"`
}

func parseCandlesticks(body []byte) ([]domain.CandlestickSeries, error) {
	var envelope candlesticksEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	series := make([]domain.CandlestickSeries, 0, len(envelope.Candlesticks))
	for _, raw := range envelope.Candlesticks {
		var tuple []json.RawMessage
		if err := json.Unmarshal(raw, &tuple); err != nil {
			return nil, fmt.Errorf("decode tuple: %w", err)
		}
		if len(tuple) != 2 {
			return nil, fmt.Errorf("candlestick tuple has %d elements, want 2", len(tuple))
		}

		var candles []domain.Candlestick
		if err := json.Unmarshal(tuple[0], &candles); err != nil {
			return nil, fmt.Errorf("decode candles: %w", err)
		}
		var meta tokenMetadata
		if err := json.Unmarshal(tuple[1], &meta); err != nil {
			return nil, fmt.Errorf("decode token metadata: %w", err)
		}

		series = append(series, domain.CandlestickSeries{
			TokenID:      meta.TokenID,
			Candlesticks: candles,
		})
	}

	return series, nil
}
