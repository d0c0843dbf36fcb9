// Package marketdata implements the REST client for the Finnhub-compatible
// market data provider: quotes, profiles, candles, company news, financial
// metrics, earnings and symbol search.
package marketdata

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

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/config"
	"github.com/finsight/market-analysis-go/internal/models"
)

// Client is the market data HTTP client. Without an API key it runs in mock
// mode: composite endpoints return deterministic placeholder data instead of
// failing, matching the behavior the frontend expects during development.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

func NewClient(cfg *config.MarketDataConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) makeRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("market data request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("failed to close response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("market data service error (%d): %s", resp.StatusCode, string(respBody))
	}

	// The provider reports some failures as 200 with an error field
	var apiErr errorResponse
	if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("market data API error: %s", apiErr.Error)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// GetQuote retrieves the real-time quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{"symbol": {strings.ToUpper(symbol)}}
	var quote Quote
	if err := c.makeRequest(ctx, "/quote", params, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetCompanyProfile retrieves company metadata for a symbol.
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	params := url.Values{"symbol": {strings.ToUpper(symbol)}}
	var profile CompanyProfile
	if err := c.makeRequest(ctx, "/stock/profile2", params, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetCandles retrieves daysBack days of OHLCV history at the given
// resolution (1, 5, 15, 30, 60, D, W, M).
func (c *Client) GetCandles(ctx context.Context, symbol, resolution string, daysBack int) (*Candles, error) {
	if resolution == "" {
		resolution = "D"
	}
	to := time.Now().Unix()
	from := to - int64(daysBack)*24*60*60

	params := url.Values{
		"symbol":     {strings.ToUpper(symbol)},
		"resolution": {resolution},
		"from":       {strconv.FormatInt(from, 10)},
		"to":         {strconv.FormatInt(to, 10)},
	}
	var candles Candles
	if err := c.makeRequest(ctx, "/stock/candle", params, &candles); err != nil {
		return nil, err
	}
	if candles.Status == "no_data" {
		return nil, fmt.Errorf("no candle data for %s", symbol)
	}
	return &candles, nil
}

// GetCompanyNews retrieves provider-sourced news for the lookback window.
func (c *Client) GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]CompanyNewsItem, error) {
	now := time.Now()
	params := url.Values{
		"symbol": {strings.ToUpper(symbol)},
		"from":   {now.AddDate(0, 0, -daysBack).Format("2006-01-02")},
		"to":     {now.Format("2006-01-02")},
	}
	var items []CompanyNewsItem
	if err := c.makeRequest(ctx, "/company-news", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetBasicFinancials retrieves the full metric set for a symbol.
func (c *Client) GetBasicFinancials(ctx context.Context, symbol string) (*BasicFinancials, error) {
	params := url.Values{"symbol": {strings.ToUpper(symbol)}, "metric": {"all"}}
	var financials BasicFinancials
	if err := c.makeRequest(ctx, "/stock/metric", params, &financials); err != nil {
		return nil, err
	}
	return &financials, nil
}

// GetEarnings retrieves recent quarterly earnings for a symbol.
func (c *Client) GetEarnings(ctx context.Context, symbol string) ([]Earning, error) {
	params := url.Values{"symbol": {strings.ToUpper(symbol)}}
	var earnings []Earning
	if err := c.makeRequest(ctx, "/stock/earnings", params, &earnings); err != nil {
		return nil, err
	}
	return earnings, nil
}

// SearchSymbols looks up symbols matching the query.
func (c *Client) SearchSymbols(ctx context.Context, query string) (*SymbolSearchResult, error) {
	params := url.Values{"q": {query}}
	var result SymbolSearchResult
	if err := c.makeRequest(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStockOverview combines quote, profile and financial metrics into one
// snapshot. Profile and metric failures degrade to a quote-only overview; in
// mock mode a deterministic placeholder is returned.
func (c *Client) GetStockOverview(ctx context.Context, symbol string) (*models.StockOverview, error) {
	symbol = strings.ToUpper(symbol)
	if !c.Configured() {
		c.logger.WithField("symbol", symbol).Debug("no market data API key, returning mock overview")
		return mockOverview(symbol), nil
	}

	quote, err := c.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	overview := &models.StockOverview{
		Symbol:        symbol,
		CurrentPrice:  decimal.NewFromFloat(quote.Current),
		Change:        decimal.NewFromFloat(quote.Change),
		ChangePercent: decimal.NewFromFloat(quote.ChangePercent),
		High:          decimal.NewFromFloat(quote.High),
		Low:           decimal.NewFromFloat(quote.Low),
		Open:          decimal.NewFromFloat(quote.Open),
		PreviousClose: decimal.NewFromFloat(quote.PreviousClose),
		Timestamp:     time.Now().UTC(),
	}

	if profile, err := c.GetCompanyProfile(ctx, symbol); err != nil {
		c.logger.WithField("symbol", symbol).WithError(err).Warn("profile fetch failed, continuing with quote only")
	} else {
		overview.CompanyName = profile.Name
		overview.Industry = profile.Industry
		overview.MarketCap = decimal.NewFromFloat(profile.MarketCapitalization)
	}

	if financials, err := c.GetBasicFinancials(ctx, symbol); err != nil {
		c.logger.WithField("symbol", symbol).WithError(err).Warn("financials fetch failed, continuing without metrics")
	} else {
		if pe, ok := financials.Metric["peTTM"]; ok {
			overview.PERatio = decimal.NewFromFloat(pe)
		}
		if high, ok := financials.Metric["52WeekHigh"]; ok {
			overview.Week52High = decimal.NewFromFloat(high)
		}
		if low, ok := financials.Metric["52WeekLow"]; ok {
			overview.Week52Low = decimal.NewFromFloat(low)
		}
	}

	return overview, nil
}

func mockOverview(symbol string) *models.StockOverview {
	return &models.StockOverview{
		Symbol:        symbol,
		CompanyName:   symbol + " (mock)",
		CurrentPrice:  decimal.NewFromFloat(150.00),
		Change:        decimal.NewFromFloat(2.50),
		ChangePercent: decimal.NewFromFloat(1.69),
		High:          decimal.NewFromFloat(152.10),
		Low:           decimal.NewFromFloat(147.80),
		Open:          decimal.NewFromFloat(148.20),
		PreviousClose: decimal.NewFromFloat(147.50),
		Timestamp:     time.Now().UTC(),
	}
}
