package domain

// MarketPrice is the current (or historical) price of a single outcome token.
type MarketPrice struct {
	Price  float64 `json:"price"`
	AtTime int64   `json:"at_time"`
}

// CandleQuote holds OHLC values for one side of the book within a candle.
type CandleQuote struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Candlestick is one aggregation period of market activity for a token.
type Candlestick struct {
	EndPeriodTS  int64       `json:"end_period_ts"`
	OpenInterest float64     `json:"open_interest"`
	Price        CandleQuote `json:"price"`
	Volume       float64     `json:"volume"`
	YesAsk       CandleQuote `json:"yes_ask"`
	YesBid       CandleQuote `json:"yes_bid"`
}

// CandlestickSeries pairs a token with its candlesticks.
type CandlestickSeries struct {
	TokenID      string
	Candlesticks []Candlestick
}

// Order is a filled order record returned by the Dome API. These are market
// fills observed on-chain, not fee authorizations.
type Order struct {
	TokenID          string  `json:"token_id"`
	Side             string  `json:"side"` // "BUY" or "SELL"
	MarketSlug       string  `json:"market_slug"`
	ConditionID      string  `json:"condition_id"`
	Shares           int64   `json:"shares"`
	SharesNormalized float64 `json:"shares_normalized"`
	Price            float64 `json:"price"`
	TxHash           string  `json:"tx_hash"`
	Title            string  `json:"title"`
	Timestamp        int64   `json:"timestamp"`
	OrderHash        string  `json:"order_hash"`
	User             string  `json:"user"`
}

// Pagination describes the window of a paginated response.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// PnLPoint is one point of a wallet's cumulative profit-and-loss series.
type PnLPoint struct {
	Timestamp int64   `json:"timestamp"`
	PnLToDate float64 `json:"pnl_to_date"`
}

// WalletPnL is the profit-and-loss series for a wallet.
type WalletPnL struct {
	Granularity   string     `json:"granularity"`
	StartTime     int64      `json:"start_time"`
	EndTime       int64      `json:"end_time"`
	WalletAddress string     `json:"wallet_address"`
	PnLOverTime   []PnLPoint `json:"pnl_over_time"`
}

// MatchedMarket is one platform's representation of a logically identical
// market, as returned by the matching-markets endpoints.
type MatchedMarket struct {
	Platform      string   `json:"platform"` // "POLYMARKET" or "KALSHI"
	MarketSlug    string   `json:"market_slug,omitempty"`
	TokenIDs      []string `json:"token_ids,omitempty"`
	EventTicker   string   `json:"event_ticker,omitempty"`
	MarketTickers []string `json:"market_tickers,omitempty"`
}
