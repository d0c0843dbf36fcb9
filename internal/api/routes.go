// Package api wires the gin router: routes, middleware and handler
// dependencies.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/finsight/market-analysis-go/internal/api/handlers"
)

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Analysis *handlers.AnalysisHandler
	Stock    *handlers.StockHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes mounts every route on the router.
func SetupRoutes(router *gin.Engine, allowedOrigins []string, h Handlers) {
	router.Use(RequestID())
	router.Use(CORS(allowedOrigins))

	// Health endpoints
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/health/ready", h.Health.ReadinessCheck)

	api := router.Group("/api")
	{
		// Stock data routes
		stock := api.Group("/stock")
		{
			stock.GET("/news/:symbol", h.Stock.GetNews)
			stock.GET("/overview/:symbol", h.Stock.GetOverview)
			stock.GET("/quote/:symbol", h.Stock.GetQuote)
			stock.GET("/candles/:symbol", h.Stock.GetCandles)
			stock.GET("/earnings/:symbol", h.Stock.GetEarnings)
			stock.GET("/indicators/:symbol", h.Stock.GetIndicators)
			stock.GET("/movers", h.Stock.GetTopMovers)
			stock.GET("/search", h.Stock.Search)
		}

		// AI analysis routes
		analysis := api.Group("/analysis")
		{
			analysis.GET("/market/:symbol", h.Analysis.GetMarketAnalysis)
			analysis.GET("/sentiment/:symbol", h.Analysis.GetSentimentAnalysis)
			analysis.GET("/risk/:symbol", h.Analysis.GetRiskAnalysis)
			analysis.GET("/full/:symbol", h.Analysis.GetFullAnalysis)
			analysis.GET("/history/:symbol", h.Analysis.GetAnalysisHistory)
		}
	}
}
