package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/market-analysis-go/internal/ai"
	"github.com/finsight/market-analysis-go/internal/config"
	"github.com/finsight/market-analysis-go/internal/marketdata"
	"github.com/finsight/market-analysis-go/internal/models"
	"github.com/finsight/market-analysis-go/internal/services"
)

func stockRouter(h *StockHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/stock/news/:symbol", h.GetNews)
	router.GET("/api/stock/overview/:symbol", h.GetOverview)
	router.GET("/api/stock/quote/:symbol", h.GetQuote)
	router.GET("/api/stock/candles/:symbol", h.GetCandles)
	router.GET("/api/stock/earnings/:symbol", h.GetEarnings)
	router.GET("/api/stock/indicators/:symbol", h.GetIndicators)
	router.GET("/api/stock/movers", h.GetTopMovers)
	router.GET("/api/stock/search", h.Search)
	return router
}

func mockMarketClient(baseURL, apiKey string) *marketdata.Client {
	return marketdata.NewClient(&config.MarketDataConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: 5}, quietLogger())
}

func mockAIClient(baseURL string) *ai.Client {
	return ai.NewClient(&config.AIConfig{Endpoint: baseURL, Deployment: "gpt-4o", Timeout: 5}, quietLogger())
}

func TestGetOverviewEndpoint(t *testing.T) {
	t.Run("mock mode returns placeholder overview", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/overview/AAPL")
		require.Equal(t, http.StatusOK, w.Code)

		var overview models.StockOverview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
		assert.Equal(t, "AAPL", overview.Symbol)
		assert.Equal(t, "150", overview.CurrentPrice.String())
	})

	t.Run("missing symbol rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/overview/%20")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetTopMoversEndpoint(t *testing.T) {
	market := mockMarketClient("https://unused.example", "")
	handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

	w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/movers")
	require.Equal(t, http.StatusOK, w.Code)

	var movers models.TopMovers
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movers))
	assert.True(t, movers.Mock)
	assert.NotEmpty(t, movers.Gainers)
}

func TestGetNewsEndpoint(t *testing.T) {
	t.Run("model digest served when ai configured", func(t *testing.T) {
		aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reply := map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{
						"role":    "assistant",
						"content": `[{"source": "Reuters", "headline": "New product line announced"}]`,
					}},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(reply))
		}))
		defer aiServer.Close()

		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, mockAIClient(aiServer.URL), services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/news/AAPL")
		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Symbol string            `json:"symbol"`
			Count  int               `json:"count"`
			News   []models.NewsItem `json:"news"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "AAPL", payload.Symbol)
		require.Equal(t, 1, payload.Count)
		assert.Equal(t, "New product line announced", payload.News[0].Headline)
	})

	t.Run("provider feed used when model fails", func(t *testing.T) {
		aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer aiServer.Close()

		marketServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/company-news", r.URL.Path)
			_, _ = w.Write([]byte(`[{"id": 42, "headline": "Fallback headline", "source": "Provider", "datetime": 1700000000, "url": "https://example.com"}]`))
		}))
		defer marketServer.Close()

		market := mockMarketClient(marketServer.URL, "key")
		handler := NewStockHandler(market, mockAIClient(aiServer.URL), services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/news/AAPL")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fallback headline")
		assert.Contains(t, w.Body.String(), `"publishedAt":"2023-11-14T22:13:20Z"`)
	})

	t.Run("no source configured", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/news/AAPL")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("invalid limit rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/news/AAPL?limit=0")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetQuoteEndpoint(t *testing.T) {
	t.Run("quote served", func(t *testing.T) {
		marketServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/quote", r.URL.Path)
			_, _ = w.Write([]byte(`{"c": 150.25, "d": 1.5, "dp": 1.01, "h": 151.0, "l": 148.5, "o": 149.0, "pc": 148.75}`))
		}))
		defer marketServer.Close()

		market := mockMarketClient(marketServer.URL, "key")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/quote/AAPL")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"c":150.25`)
	})

	t.Run("unconfigured provider rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/quote/AAPL")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetCandlesEndpoint(t *testing.T) {
	t.Run("candles served", func(t *testing.T) {
		marketServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stock/candle", r.URL.Path)
			require.Equal(t, "D", r.URL.Query().Get("resolution"))
			_, _ = w.Write([]byte(`{"s": "ok", "c": [100, 101], "o": [99, 100], "h": [101, 102], "l": [98, 99], "v": [1000, 1100], "t": [1700000000, 1700086400]}`))
		}))
		defer marketServer.Close()

		market := mockMarketClient(marketServer.URL, "key")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/candles/AAPL")
		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Symbol     string             `json:"symbol"`
			Resolution string             `json:"resolution"`
			Candles    marketdata.Candles `json:"candles"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "AAPL", payload.Symbol)
		assert.Equal(t, "D", payload.Resolution)
		assert.Len(t, payload.Candles.Close, 2)
	})

	t.Run("days out of range rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "key")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/candles/AAPL?days=400")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetEarningsEndpoint(t *testing.T) {
	t.Run("earnings served", func(t *testing.T) {
		marketServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stock/earnings", r.URL.Path)
			_, _ = w.Write([]byte(`[{"actual": 1.52, "estimate": 1.43, "period": "2026-06-30", "quarter": 2, "surprise": 0.09, "symbol": "AAPL", "year": 2026}]`))
		}))
		defer marketServer.Close()

		market := mockMarketClient(marketServer.URL, "key")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/earnings/AAPL")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":1`)
	})

	t.Run("unconfigured provider rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/earnings/AAPL")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetIndicatorsEndpoint(t *testing.T) {
	t.Run("mock mode rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/indicators/AAPL")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("query required", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "key")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/search")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unconfigured provider rejected", func(t *testing.T) {
		market := mockMarketClient("https://unused.example", "")
		handler := NewStockHandler(market, nil, services.NewIndicatorService(market, quietLogger()), quietLogger())

		w := performRequest(stockRouter(handler), http.MethodGet, "/api/stock/search?q=apple")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
