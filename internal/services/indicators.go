// Package services holds the domain services that sit between the HTTP
// handlers and the outbound clients.
package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/marketdata"
)

const (
	rsiPeriod      = 14
	macdFast       = 12
	macdSlow       = 26
	macdSignal     = 9
	bbPeriod       = 20
	bbStdDev       = 2.0
	candleLookback = 365
)

// CandleSource provides historical price candles. Satisfied by the market
// data client.
type CandleSource interface {
	Configured() bool
	GetCandles(ctx context.Context, symbol, resolution string, daysBack int) (*marketdata.Candles, error)
}

// IndicatorSnapshot is the latest value of each computed indicator.
type IndicatorSnapshot struct {
	Symbol      string          `json:"symbol"`
	RSI         decimal.Decimal `json:"rsi"`
	MACD        decimal.Decimal `json:"macd"`
	MACDSignal  decimal.Decimal `json:"macdSignal"`
	SMA50       decimal.Decimal `json:"sma50"`
	SMA200      decimal.Decimal `json:"sma200"`
	EMA12       decimal.Decimal `json:"ema12"`
	BBUpper     decimal.Decimal `json:"bollingerUpper"`
	BBMiddle    decimal.Decimal `json:"bollingerMiddle"`
	BBLower     decimal.Decimal `json:"bollingerLower"`
	SampleCount int             `json:"sampleCount"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// IndicatorService computes technical indicators from daily candle history.
type IndicatorService struct {
	candles CandleSource
	logger  *logrus.Logger
}

func NewIndicatorService(candles CandleSource, logger *logrus.Logger) *IndicatorService {
	if logger == nil {
		logger = logrus.New()
	}
	return &IndicatorService{candles: candles, logger: logger}
}

// Snapshot fetches a year of daily candles and computes the standard
// indicator set. At least 200 closes are required so the 200-day SMA is
// meaningful.
func (s *IndicatorService) Snapshot(ctx context.Context, symbol string) (*IndicatorSnapshot, error) {
	if !s.candles.Configured() {
		return nil, fmt.Errorf("market data provider not configured")
	}

	data, err := s.candles.GetCandles(ctx, symbol, "D", candleLookback)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candles for %s: %w", symbol, err)
	}
	prices := data.Close
	if len(prices) < 200 {
		return nil, fmt.Errorf("insufficient history for %s: %d closes", symbol, len(prices))
	}

	snapshot := &IndicatorSnapshot{
		Symbol:      symbol,
		SampleCount: len(prices),
		GeneratedAt: time.Now().UTC(),
	}

	rsiIndicator := momentum.NewRsiWithPeriod[float64](rsiPeriod)
	rsi := helper.ChanToSlice(rsiIndicator.Compute(helper.SliceToChan(prices)))
	snapshot.RSI = lastAsDecimal(rsi)

	macdIndicator := trend.NewMacdWithPeriod[float64](macdFast, macdSlow, macdSignal)
	macdLine, signalLine := macdIndicator.Compute(helper.SliceToChan(prices))
	// Both channels feed from the same pipeline and must be drained
	// concurrently or the producer blocks on the unread one.
	signalValues := make(chan []float64, 1)
	go func() {
		signalValues <- helper.ChanToSlice(signalLine)
	}()
	snapshot.MACD = lastAsDecimal(helper.ChanToSlice(macdLine))
	snapshot.MACDSignal = lastAsDecimal(<-signalValues)

	sma50Indicator := trend.NewSmaWithPeriod[float64](50)
	snapshot.SMA50 = lastAsDecimal(helper.ChanToSlice(sma50Indicator.Compute(helper.SliceToChan(prices))))

	sma200Indicator := trend.NewSmaWithPeriod[float64](200)
	snapshot.SMA200 = lastAsDecimal(helper.ChanToSlice(sma200Indicator.Compute(helper.SliceToChan(prices))))

	ema12Indicator := trend.NewEmaWithPeriod[float64](12)
	snapshot.EMA12 = lastAsDecimal(helper.ChanToSlice(ema12Indicator.Compute(helper.SliceToChan(prices))))

	upper, middle, lower := bollingerBands(prices, bbPeriod, bbStdDev)
	snapshot.BBUpper = decimal.NewFromFloat(upper)
	snapshot.BBMiddle = decimal.NewFromFloat(middle)
	snapshot.BBLower = decimal.NewFromFloat(lower)

	s.logger.WithFields(logrus.Fields{
		"symbol":  symbol,
		"samples": len(prices),
	}).Debug("computed indicator snapshot")

	return snapshot, nil
}

// bollingerBands returns the latest upper, middle and lower band. The middle
// band is the SMA of the final window; the bands sit stdDev standard
// deviations away.
func bollingerBands(prices []float64, period int, stdDev float64) (upper, middle, lower float64) {
	if len(prices) < period {
		return 0, 0, 0
	}
	smaIndicator := trend.NewSmaWithPeriod[float64](period)
	smaValues := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(prices)))

	middle = smaValues[len(smaValues)-1]
	window := prices[len(prices)-period:]
	sd := standardDeviation(window, middle)
	upper = middle + stdDev*sd
	lower = middle - stdDev*sd
	return upper, middle, lower
}

func standardDeviation(window []float64, mean float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(window)))
}

func lastAsDecimal(values []float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(values[len(values)-1])
}
