package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight/market-analysis-go/internal/models"
)

// moverUniverse is the fixed symbol set scanned for gainers and losers. The
// provider has no dedicated movers endpoint on the standard plan, so the
// screen is built from individual quotes.
var moverUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
	"META", "TSLA", "AMD", "NFLX", "INTC",
}

const moversPerSide = 5

// TopMovers builds the gainers/losers screen. In mock mode, or when every
// quote fails, a deterministic placeholder screen is returned so the frontend
// always has something to render.
func (c *Client) TopMovers(ctx context.Context) (*models.TopMovers, error) {
	if !c.Configured() {
		c.logger.Debug("no market data API key, returning mock movers")
		return mockMovers(), nil
	}

	var movers []models.TopMover
	for _, symbol := range moverUniverse {
		quote, err := c.GetQuote(ctx, symbol)
		if err != nil {
			c.logger.WithField("symbol", symbol).WithError(err).Warn("quote fetch failed, skipping symbol")
			continue
		}
		movers = append(movers, models.TopMover{
			Symbol:        symbol,
			Price:         decimal.NewFromFloat(quote.Current),
			Change:        decimal.NewFromFloat(quote.Change),
			ChangePercent: decimal.NewFromFloat(quote.ChangePercent),
		})
	}
	if len(movers) == 0 {
		c.logger.Warn("all mover quotes failed, returning mock movers")
		return mockMovers(), nil
	}

	// Selection sort by change percent, descending; the universe is tiny
	for i := 0; i < len(movers); i++ {
		for j := i + 1; j < len(movers); j++ {
			if movers[j].ChangePercent.GreaterThan(movers[i].ChangePercent) {
				movers[i], movers[j] = movers[j], movers[i]
			}
		}
	}

	result := &models.TopMovers{Timestamp: time.Now().UTC()}
	for i, m := range movers {
		if i < moversPerSide {
			result.Gainers = append(result.Gainers, m)
		}
		if i >= len(movers)-moversPerSide {
			result.Losers = append(result.Losers, m)
		}
	}
	return result, nil
}

func mockMovers() *models.TopMovers {
	gainers := []models.TopMover{
		{Symbol: "NVDA", Description: "NVIDIA Corp", Price: decimal.NewFromFloat(485.20), Change: decimal.NewFromFloat(18.30), ChangePercent: decimal.NewFromFloat(3.92)},
		{Symbol: "AMD", Description: "Advanced Micro Devices", Price: decimal.NewFromFloat(112.40), Change: decimal.NewFromFloat(3.80), ChangePercent: decimal.NewFromFloat(3.50)},
		{Symbol: "META", Description: "Meta Platforms", Price: decimal.NewFromFloat(332.10), Change: decimal.NewFromFloat(8.90), ChangePercent: decimal.NewFromFloat(2.75)},
	}
	losers := []models.TopMover{
		{Symbol: "INTC", Description: "Intel Corp", Price: decimal.NewFromFloat(42.80), Change: decimal.NewFromFloat(-1.60), ChangePercent: decimal.NewFromFloat(-3.60)},
		{Symbol: "NFLX", Description: "Netflix Inc", Price: decimal.NewFromFloat(412.60), Change: decimal.NewFromFloat(-9.40), ChangePercent: decimal.NewFromFloat(-2.23)},
		{Symbol: "TSLA", Description: "Tesla Inc", Price: decimal.NewFromFloat(238.90), Change: decimal.NewFromFloat(-4.10), ChangePercent: decimal.NewFromFloat(-1.69)},
	}
	return &models.TopMovers{
		Gainers:   gainers,
		Losers:    losers,
		Timestamp: time.Now().UTC(),
		Mock:      true,
	}
}
