package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/ai"
	"github.com/finsight/market-analysis-go/internal/marketdata"
	"github.com/finsight/market-analysis-go/internal/models"
	"github.com/finsight/market-analysis-go/internal/services"
)

const (
	defaultNewsLimit    = 10
	maxNewsLimit        = 25
	defaultNewsLookback = 7
	maxNewsLookback     = 30

	defaultCandleDays = 90
	maxCandleDays     = 365
)

// StockHandler serves the stock data endpoints: news, overview, movers,
// indicators and symbol search.
type StockHandler struct {
	marketData *marketdata.Client
	aiClient   *ai.Client
	indicators *services.IndicatorService
	logger     *logrus.Logger
}

func NewStockHandler(marketData *marketdata.Client, aiClient *ai.Client, indicators *services.IndicatorService, logger *logrus.Logger) *StockHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &StockHandler{
		marketData: marketData,
		aiClient:   aiClient,
		indicators: indicators,
		logger:     logger,
	}
}

// GetNews serves GET /api/stock/news/:symbol. The curated digest comes from
// the model; when the model is unavailable the provider's company news feed
// is used instead.
func (h *StockHandler) GetNews(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	limit := defaultNewsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxNewsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 25"})
			return
		}
		limit = parsed
	}

	lookback := defaultNewsLookback
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxNewsLookback {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 30"})
			return
		}
		lookback = parsed
	}

	ctx := c.Request.Context()
	if h.aiClient != nil && h.aiClient.Configured() {
		items, err := h.aiClient.GenerateNews(ctx, symbol, limit, lookback)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"symbol": symbol, "count": len(items), "news": items})
			return
		}
		h.logger.WithField("symbol", symbol).WithError(err).Warn("model news digest failed, falling back to provider feed")
	}

	if h.marketData == nil || !h.marketData.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no news source is configured"})
		return
	}

	providerItems, err := h.marketData.GetCompanyNews(ctx, symbol, lookback)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("company news fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch news"})
		return
	}

	items := make([]models.NewsItem, 0, limit)
	for _, article := range providerItems {
		if strings.TrimSpace(article.Headline) == "" {
			continue
		}
		items = append(items, models.NewsItem{
			ID:          strconv.FormatInt(article.ID, 10),
			Source:      article.Source,
			Headline:    article.Headline,
			URL:         article.URL,
			PublishedAt: time.Unix(article.Datetime, 0).UTC().Format(time.RFC3339),
			Summary:     article.Summary,
		})
		if len(items) == limit {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "count": len(items), "news": items})
}

// GetOverview serves GET /api/stock/overview/:symbol.
func (h *StockHandler) GetOverview(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	overview, err := h.marketData.GetStockOverview(c.Request.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("overview fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch stock overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetQuote serves GET /api/stock/quote/:symbol.
func (h *StockHandler) GetQuote(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}
	if !h.marketData.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data provider not configured"})
		return
	}

	quote, err := h.marketData.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("quote fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch quote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "quote": quote})
}

// GetCandles serves GET /api/stock/candles/:symbol.
func (h *StockHandler) GetCandles(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	resolution := c.DefaultQuery("resolution", "D")
	days := defaultCandleDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxCandleDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = parsed
	}

	if !h.marketData.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data provider not configured"})
		return
	}

	candles, err := h.marketData.GetCandles(c.Request.Context(), symbol, resolution, days)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("candle fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch candles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "resolution": resolution, "candles": candles})
}

// GetEarnings serves GET /api/stock/earnings/:symbol.
func (h *StockHandler) GetEarnings(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}
	if !h.marketData.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data provider not configured"})
		return
	}

	earnings, err := h.marketData.GetEarnings(c.Request.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("earnings fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch earnings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "count": len(earnings), "earnings": earnings})
}

// GetTopMovers serves GET /api/stock/movers.
func (h *StockHandler) GetTopMovers(c *gin.Context) {
	movers, err := h.marketData.TopMovers(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("movers fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch top movers"})
		return
	}

	c.JSON(http.StatusOK, movers)
}

// GetIndicators serves GET /api/stock/indicators/:symbol.
func (h *StockHandler) GetIndicators(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	snapshot, err := h.indicators.Snapshot(c.Request.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Warn("indicator snapshot failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to compute indicators"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Search serves GET /api/stock/search.
func (h *StockHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}
	if !h.marketData.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data provider not configured"})
		return
	}

	result, err := h.marketData.SearchSymbols(c.Request.Context(), query)
	if err != nil {
		h.logger.WithField("query", query).WithError(err).Error("symbol search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "symbol search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
