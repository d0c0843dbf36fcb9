package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Generator produces one raw analysis document for a symbol and kind. The
// call is an opaque remote invocation that may fail or time out; the Service
// treats any error as an upstream failure and substitutes defaults without
// touching the Normalizer.
type Generator interface {
	GenerateAnalysis(ctx context.Context, symbol string, kind Kind) (string, error)
}

// Service is the caller boundary around generation and normalization. It
// always returns a schema-complete record: degraded values are
// indistinguishable in shape from extracted ones.
type Service struct {
	generator  Generator
	normalizer *Normalizer
	logger     *logrus.Logger
}

func NewService(generator Generator, normalizer *Normalizer, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		generator:  generator,
		normalizer: normalizer,
		logger:     logger,
	}
}

// MarketAnalysis generates and normalizes the market view for a symbol.
func (s *Service) MarketAnalysis(ctx context.Context, symbol string) MarketAnalysis {
	document, err := s.generator.GenerateAnalysis(ctx, symbol, KindMarket)
	if err != nil {
		s.logUpstreamFailure(symbol, KindMarket, err)
		return s.normalizer.DefaultMarketAnalysis(symbol, unavailableMessage("Market", symbol))
	}
	return s.normalizer.NormalizeMarket(document, symbol)
}

// SentimentAnalysis generates and normalizes the sentiment view for a symbol.
func (s *Service) SentimentAnalysis(ctx context.Context, symbol string) SentimentAnalysis {
	document, err := s.generator.GenerateAnalysis(ctx, symbol, KindSentiment)
	if err != nil {
		s.logUpstreamFailure(symbol, KindSentiment, err)
		return s.normalizer.DefaultSentimentAnalysis(symbol, unavailableMessage("Sentiment", symbol))
	}
	return s.normalizer.NormalizeSentiment(document, symbol)
}

// RiskAnalysis generates and normalizes the risk view for a symbol.
func (s *Service) RiskAnalysis(ctx context.Context, symbol string) RiskAnalysis {
	document, err := s.generator.GenerateAnalysis(ctx, symbol, KindRisk)
	if err != nil {
		s.logUpstreamFailure(symbol, KindRisk, err)
		return s.normalizer.DefaultRiskAnalysis(symbol, unavailableMessage("Risk", symbol))
	}
	return s.normalizer.NormalizeRisk(document, symbol)
}

// FullAnalysis dispatches the three analysis kinds concurrently and awaits
// them jointly. Each kind works on its own document with no shared mutable
// state, so no coordination beyond the join is needed.
func (s *Service) FullAnalysis(ctx context.Context, symbol string) FullAnalysis {
	result := FullAnalysis{Symbol: symbol}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Market = s.MarketAnalysis(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		result.Sentiment = s.SentimentAnalysis(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		result.Risk = s.RiskAnalysis(ctx, symbol)
	}()
	wg.Wait()

	return result
}

func (s *Service) logUpstreamFailure(symbol string, kind Kind, err error) {
	s.logger.WithFields(logrus.Fields{"symbol": symbol, "kind": kind}).
		WithError(err).Warn("analysis generation failed, returning defaults")
}

func unavailableMessage(kind, symbol string) string {
	return fmt.Sprintf("%s analysis for %s is currently unavailable. Please try again later.", kind, symbol)
}
