// Package dome is the REST client for the Dome API: market prices,
// candlesticks, order history, wallet PnL, and cross-platform market
// matching.
package dome

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kurushdubash/dome-sdk-go/internal/domain"
)

const (
	// DefaultBaseURL is the production Dome API root.
	DefaultBaseURL = "https://api.domeapi.io/v1"

	// maxRetries bounds the retry loop for rate limits and server errors.
	maxRetries = 3

	// priceFanout caps concurrent requests in GetMarketPrices.
	priceFanout = 8
)

// Client is the Dome API REST client. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Dome API client authenticating with apiKey. An empty
// baseURL selects production.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("dome: %w: api key is required", domain.ErrValidation)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetMarketPrice returns the price of one token, current or at atTime when
// atTime is non-zero.
func (c *Client) GetMarketPrice(ctx context.Context, tokenID string, atTime int64) (domain.MarketPrice, error) {
	params := url.Values{}
	if atTime != 0 {
		params.Set("at_time", strconv.FormatInt(atTime, 10))
	}

	path := "/polymarket/market-price/" + url.PathEscape(tokenID)
	body, err := c.doGet(ctx, path, params)
	if err != nil {
		return domain.MarketPrice{}, fmt.Errorf("dome: get market price %s: %w", tokenID, err)
	}

	var price domain.MarketPrice
	if err := json.Unmarshal(body, &price); err != nil {
		return domain.MarketPrice{}, fmt.Errorf("dome: decode market price: %w", err)
	}
	return price, nil
}

// GetMarketPrices fetches prices for several tokens concurrently. The result
// preserves the input order; one failed token fails the whole call.
func (c *Client) GetMarketPrices(ctx context.Context, tokenIDs []string, atTime int64) ([]domain.MarketPrice, error) {
	prices := make([]domain.MarketPrice, len(tokenIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceFanout)
	for i, tokenID := range tokenIDs {
		g.Go(func() error {
			price, err := c.GetMarketPrice(ctx, tokenID, atTime)
			if err != nil {
				return err
			}
			prices[i] = price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prices, nil
}

// GetCandlesticks returns candlestick series for every token of a condition.
func (c *Client) GetCandlesticks(ctx context.Context, params GetCandlesticksParams) ([]domain.CandlestickSeries, error) {
	query := url.Values{}
	query.Set("start_time", strconv.FormatInt(params.StartTime, 10))
	query.Set("end_time", strconv.FormatInt(params.EndTime, 10))
	if params.Interval != 0 {
		query.Set("interval", strconv.Itoa(params.Interval))
	}

	path := "/polymarket/candlesticks/" + url.PathEscape(params.ConditionID)
	body, err := c.doGet(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("dome: get candlesticks %s: %w", params.ConditionID, err)
	}

	series, err := parseCandlesticks(body)
	if err != nil {
		return nil, fmt.Errorf("dome: decode candlesticks: %w", err)
	}
	return series, nil
}

// GetOrders returns one page of order fills matching the filters.
func (c *Client) GetOrders(ctx context.Context, params GetOrdersParams) (OrdersResponse, error) {
	query := url.Values{}
	if params.MarketSlug != "" {
		query.Set("market_slug", params.MarketSlug)
	}
	if params.ConditionID != "" {
		query.Set("condition_id", params.ConditionID)
	}
	if params.TokenID != "" {
		query.Set("token_id", params.TokenID)
	}
	if params.StartTime != 0 {
		query.Set("start_time", strconv.FormatInt(params.StartTime, 10))
	}
	if params.EndTime != 0 {
		query.Set("end_time", strconv.FormatInt(params.EndTime, 10))
	}
	if params.Limit != 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset != 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.User != "" {
		query.Set("user", params.User)
	}

	body, err := c.doGet(ctx, "/polymarket/orders", query)
	if err != nil {
		return OrdersResponse{}, fmt.Errorf("dome: get orders: %w", err)
	}

	var resp OrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return OrdersResponse{}, fmt.Errorf("dome: decode orders: %w", err)
	}
	return resp, nil
}

// GetWalletPnL returns the profit-and-loss series for a wallet.
func (c *Client) GetWalletPnL(ctx context.Context, params GetWalletPnLParams) (domain.WalletPnL, error) {
	query := url.Values{}
	query.Set("granularity", params.Granularity)
	if params.StartTime != 0 {
		query.Set("start_time", strconv.FormatInt(params.StartTime, 10))
	}
	if params.EndTime != 0 {
		query.Set("end_time", strconv.FormatInt(params.EndTime, 10))
	}

	path := "/polymarket/wallet/pnl/" + url.PathEscape(params.WalletAddress)
	body, err := c.doGet(ctx, path, query)
	if err != nil {
		return domain.WalletPnL{}, fmt.Errorf("dome: get wallet pnl %s: %w", params.WalletAddress, err)
	}

	var pnl domain.WalletPnL
	if err := json.Unmarshal(body, &pnl); err != nil {
		return domain.WalletPnL{}, fmt.Errorf("dome: decode wallet pnl: %w", err)
	}
	return pnl, nil
}

// GetMatchingMarkets returns, per queried market, the logically identical
// markets on the other platforms.
func (c *Client) GetMatchingMarkets(ctx context.Context, params GetMatchingMarketsParams) (MatchingMarketsResponse, error) {
	query := url.Values{}
	for _, slug := range params.PolymarketMarketSlugs {
		query.Add("polymarket_market_slug", slug)
	}
	for _, ticker := range params.KalshiEventTickers {
		query.Add("kalshi_event_ticker", ticker)
	}

	body, err := c.doGet(ctx, "/matching-markets/sports/", query)
	if err != nil {
		return MatchingMarketsResponse{}, fmt.Errorf("dome: get matching markets: %w", err)
	}

	var resp MatchingMarketsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return MatchingMarketsResponse{}, fmt.Errorf("dome: decode matching markets: %w", err)
	}
	return resp, nil
}

// GetMatchingMarketsBySport returns cross-platform market matches for every
// game of one sport on one date.
func (c *Client) GetMatchingMarketsBySport(ctx context.Context, params GetMatchingMarketsBySportParams) (MatchingMarketsBySportResponse, error) {
	query := url.Values{}
	query.Set("date", params.Date)

	path := "/matching-markets/sports/" + url.PathEscape(params.Sport) + "/"
	body, err := c.doGet(ctx, path, query)
	if err != nil {
		return MatchingMarketsBySportResponse{}, fmt.Errorf("dome: get matching markets for %s: %w", params.Sport, err)
	}

	var resp MatchingMarketsBySportResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return MatchingMarketsBySportResponse{}, fmt.Errorf("dome: decode matching markets: %w", err)
	}
	return resp, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends an authenticated GET request, retrying rate limits and server
// errors with exponential backoff.
func (c *Client) doGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.attempt(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

// attempt performs one request. The second return value reports whether the
// failure is worth retrying.
func (c *Client) attempt(ctx context.Context, endpoint string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, err
	}
	return body, false, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors, preferring the
// API's own error message when the envelope parses.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	msg := string(body)
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, msg)
	}
}
