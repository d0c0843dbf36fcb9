// Package handlers contains the gin HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/analysis"
	"github.com/finsight/market-analysis-go/internal/database"
	"github.com/finsight/market-analysis-go/internal/repository"
)

// AnalysisHandler serves the AI analysis endpoints. Cache and repo are
// optional; when nil every request goes straight to the analysis service.
type AnalysisHandler struct {
	service  *analysis.Service
	cache    *database.RedisClient
	repo     *repository.AnalysisRepository
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewAnalysisHandler(service *analysis.Service, cache *database.RedisClient, repo *repository.AnalysisRepository, cacheTTL time.Duration, logger *logrus.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logrus.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalysisHandler{
		service:  service,
		cache:    cache,
		repo:     repo,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func symbolParam(c *gin.Context) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol parameter is required"})
		return "", false
	}
	return symbol, true
}

// GetMarketAnalysis serves GET /api/analysis/market/:symbol.
func (h *AnalysisHandler) GetMarketAnalysis(c *gin.Context) {
	h.serveAnalysis(c, analysis.KindMarket, func(ctx context.Context, symbol string) (interface{}, error) {
		return h.service.MarketAnalysis(ctx, symbol), nil
	})
}

// GetSentimentAnalysis serves GET /api/analysis/sentiment/:symbol.
func (h *AnalysisHandler) GetSentimentAnalysis(c *gin.Context) {
	h.serveAnalysis(c, analysis.KindSentiment, func(ctx context.Context, symbol string) (interface{}, error) {
		return h.service.SentimentAnalysis(ctx, symbol), nil
	})
}

// GetRiskAnalysis serves GET /api/analysis/risk/:symbol.
func (h *AnalysisHandler) GetRiskAnalysis(c *gin.Context) {
	h.serveAnalysis(c, analysis.KindRisk, func(ctx context.Context, symbol string) (interface{}, error) {
		return h.service.RiskAnalysis(ctx, symbol), nil
	})
}

// GetFullAnalysis serves GET /api/analysis/full/:symbol. The three analyses
// run concurrently inside the service.
func (h *AnalysisHandler) GetFullAnalysis(c *gin.Context) {
	h.serveAnalysis(c, "full", func(ctx context.Context, symbol string) (interface{}, error) {
		return h.service.FullAnalysis(ctx, symbol), nil
	})
}

func (h *AnalysisHandler) serveAnalysis(c *gin.Context, kind analysis.Kind, produce func(context.Context, string) (interface{}, error)) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cacheKey := "analysis:" + string(kind) + ":" + symbol

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			h.logger.WithFields(logrus.Fields{"symbol": symbol, "kind": kind}).Debug("analysis cache hit")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	result, err := produce(ctx, symbol)
	if err != nil {
		// The service degrades to default analyses internally, so an
		// error here means the request itself is unservable.
		h.logger.WithFields(logrus.Fields{"symbol": symbol, "kind": kind}).WithError(err).Error("analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate analysis"})
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode analysis"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, string(body), h.cacheTTL); err != nil {
			h.logger.WithError(err).Warn("failed to cache analysis")
		}
	}
	if h.repo != nil {
		if _, err := h.repo.Save(ctx, symbol, string(kind), result, time.Now().UTC()); err != nil {
			h.logger.WithError(err).Warn("failed to persist analysis snapshot")
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetAnalysisHistory serves GET /api/analysis/history/:symbol. Returns 404
// when persistence is disabled.
func (h *AnalysisHandler) GetAnalysisHistory(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}
	if h.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis history is not enabled"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	records, err := h.repo.History(c.Request.Context(), symbol, limit)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("failed to load analysis history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis history"})
		return
	}
	if records == nil {
		records = []repository.AnalysisRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":  symbol,
		"count":   len(records),
		"history": records,
	})
}
