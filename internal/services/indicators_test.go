package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/market-analysis-go/internal/marketdata"
)

type fakeCandleSource struct {
	configured bool
	candles    *marketdata.Candles
	err        error
}

func (f *fakeCandleSource) Configured() bool { return f.configured }

func (f *fakeCandleSource) GetCandles(ctx context.Context, symbol, resolution string, daysBack int) (*marketdata.Candles, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

func risingCloses(count int) []float64 {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = 100.0 + float64(i)*0.5 + float64(i%7)*0.2
	}
	return closes
}

func TestIndicatorSnapshot(t *testing.T) {
	t.Run("computes full indicator set", func(t *testing.T) {
		source := &fakeCandleSource{
			configured: true,
			candles:    &marketdata.Candles{Close: risingCloses(300), Status: "ok"},
		}
		service := NewIndicatorService(source, nil)

		snapshot, err := service.Snapshot(context.Background(), "AAPL")
		require.NoError(t, err)

		assert.Equal(t, "AAPL", snapshot.Symbol)
		assert.Equal(t, 300, snapshot.SampleCount)
		assert.False(t, snapshot.GeneratedAt.IsZero())

		rsi, _ := snapshot.RSI.Float64()
		assert.Greater(t, rsi, 50.0) // consistently rising series
		assert.LessOrEqual(t, rsi, 100.0)

		macd, _ := snapshot.MACD.Float64()
		macdSignal, _ := snapshot.MACDSignal.Float64()
		assert.Positive(t, macd) // fast average stays above slow in an uptrend
		assert.Positive(t, macdSignal)

		sma50, _ := snapshot.SMA50.Float64()
		sma200, _ := snapshot.SMA200.Float64()
		assert.Greater(t, sma50, sma200) // uptrend: short average above long

		upper, _ := snapshot.BBUpper.Float64()
		middle, _ := snapshot.BBMiddle.Float64()
		lower, _ := snapshot.BBLower.Float64()
		assert.Greater(t, upper, middle)
		assert.Greater(t, middle, lower)
	})

	t.Run("unconfigured source rejected", func(t *testing.T) {
		service := NewIndicatorService(&fakeCandleSource{configured: false}, nil)
		_, err := service.Snapshot(context.Background(), "AAPL")
		assert.Error(t, err)
	})

	t.Run("candle fetch failure surfaced", func(t *testing.T) {
		service := NewIndicatorService(&fakeCandleSource{configured: true, err: errors.New("boom")}, nil)
		_, err := service.Snapshot(context.Background(), "AAPL")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("insufficient history rejected", func(t *testing.T) {
		source := &fakeCandleSource{
			configured: true,
			candles:    &marketdata.Candles{Close: risingCloses(100), Status: "ok"},
		}
		_, err := NewIndicatorService(source, nil).Snapshot(context.Background(), "AAPL")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient history")
	})
}

func TestBollingerBands(t *testing.T) {
	t.Run("constant series collapses bands", func(t *testing.T) {
		prices := make([]float64, 40)
		for i := range prices {
			prices[i] = 100.0
		}
		upper, middle, lower := bollingerBands(prices, 20, 2.0)
		assert.Equal(t, 100.0, middle)
		assert.Equal(t, 100.0, upper)
		assert.Equal(t, 100.0, lower)
	})

	t.Run("bands symmetric around middle", func(t *testing.T) {
		upper, middle, lower := bollingerBands(risingCloses(60), 20, 2.0)
		assert.InDelta(t, middle-lower, upper-middle, 1e-9)
	})

	t.Run("too few prices", func(t *testing.T) {
		upper, middle, lower := bollingerBands([]float64{1, 2, 3}, 20, 2.0)
		assert.Zero(t, upper)
		assert.Zero(t, middle)
		assert.Zero(t, lower)
	})
}

func TestStandardDeviation(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		window := []float64{2, 4, 4, 4, 5, 5, 7, 9}
		assert.InDelta(t, 2.0, standardDeviation(window, 5.0), 1e-9)
	})

	t.Run("empty window", func(t *testing.T) {
		assert.Zero(t, standardDeviation(nil, 0))
	})

	t.Run("never negative", func(t *testing.T) {
		sd := standardDeviation(risingCloses(30), 105.0)
		assert.False(t, math.Signbit(sd))
	})
}
