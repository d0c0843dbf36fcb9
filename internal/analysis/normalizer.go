package analysis

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/extraction"
)

// Schema constants for list harvesting: minimum item length filters noise,
// maximum counts keep the payload bounded.
const (
	maxSentimentDrivers = 10
	maxRiskFactors      = 10
	maxMitigations      = 8
	maxKeyRisksPerArea  = 5

	minListItemLength = 10
	minKeyRiskLength  = 15

	sectionSummaryLimit = 500
)

// Normalizer converts one raw analysis document into a typed record. It is
// pure and synchronous: no shared state, no I/O, identical input text always
// yields identical output (only the generation timestamp differs). It never
// returns an error; every extraction miss resolves to a fallback and an
// unexpected fault during assembly degrades to an all-defaults record that
// keeps the raw text as the summary.
type Normalizer struct {
	logger *logrus.Logger

	indicatorRules []extraction.NumericRule
	sentimentScore extraction.NumericRule
	riskScore      extraction.NumericRule
	sentimentRules []extraction.LabelRule
	riskRules      []extraction.LabelRule

	indicatorDefaults extraction.IndicatorDefaults
	scoreDefault      float64
}

// NewNormalizer builds a normalizer with the given fallback constants. The
// rule tables themselves are fixed; only the substituted defaults vary.
func NewNormalizer(logger *logrus.Logger, defaults extraction.IndicatorDefaults, scoreDefault float64) *Normalizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Normalizer{
		logger:            logger,
		indicatorRules:    extraction.IndicatorRules(defaults),
		sentimentScore:    extraction.SentimentScoreRule(scoreDefault),
		riskScore:         extraction.RiskScoreRule(scoreDefault),
		sentimentRules:    extraction.SentimentLabelRules(),
		riskRules:         extraction.RiskLabelRules(),
		indicatorDefaults: defaults,
		scoreDefault:      scoreDefault,
	}
}

// NormalizeMarket extracts the market schema from the document: the six
// technical indicators plus the narrative sections.
func (n *Normalizer) NormalizeMarket(document, symbol string) (result MarketAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithFields(logrus.Fields{"symbol": symbol, "kind": KindMarket, "panic": r}).
				Error("normalization fault, returning defaults")
			result = n.DefaultMarketAnalysis(symbol, document)
		}
	}()

	indicators := make(map[string]float64, len(n.indicatorRules))
	for _, rule := range n.indicatorRules {
		value, provenance := extraction.ExtractNumeric(document, rule)
		indicators[rule.Field] = value
		n.logExtraction(symbol, rule.Field, provenance)
	}

	return MarketAnalysis{
		Symbol:              symbol,
		Analysis:            document,
		TechnicalIndicators: indicators,
		SectorAnalysis:      extraction.LocateSection(document, "Sector Analysis", "Market Context"),
		CompetitivePosition: extraction.LocateSection(document, "Competitive Analysis", "Market Outlook"),
		MarketOutlook:       extraction.LocateSection(document, "Market Outlook", ""),
		GeneratedAt:         time.Now().UTC(),
	}
}

// NormalizeSentiment extracts the sentiment schema: the overall
// classification and score, one breakdown per sentiment source, the driver
// list and the assessment summary.
func (n *Normalizer) NormalizeSentiment(document, symbol string) (result SentimentAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithFields(logrus.Fields{"symbol": symbol, "kind": KindSentiment, "panic": r}).
				Error("normalization fault, returning defaults")
			result = n.DefaultSentimentAnalysis(symbol, document)
		}
	}()

	overall, provenance := extraction.Classify(document, n.sentimentRules, extraction.NeutralSentiment)
	n.logExtraction(symbol, "overall_sentiment", provenance)
	score, provenance := extraction.ExtractNumeric(document, n.sentimentScore)
	n.logExtraction(symbol, "sentiment_score", provenance)

	return SentimentAnalysis{
		Symbol:           symbol,
		OverallSentiment: overall,
		SentimentScore:   score,
		NewsSentiment:    n.sentimentBreakdown(document, "News Sentiment"),
		SocialSentiment:  n.sentimentBreakdown(document, "Social Media"),
		AnalystSentiment: n.sentimentBreakdown(document, "Analyst Sentiment"),
		SentimentDrivers: extraction.ExtractList(document, minListItemLength, maxSentimentDrivers),
		SentimentSummary: extraction.LocateSection(document, "Overall Sentiment Assessment", ""),
		GeneratedAt:      time.Now().UTC(),
	}
}

// NormalizeRisk extracts the risk schema: the overall rating and score, one
// category per risk area, the factor and mitigation lists and the assessment
// summary.
func (n *Normalizer) NormalizeRisk(document, symbol string) (result RiskAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithFields(logrus.Fields{"symbol": symbol, "kind": KindRisk, "panic": r}).
				Error("normalization fault, returning defaults")
			result = n.DefaultRiskAnalysis(symbol, document)
		}
	}()

	rating, provenance := extraction.Classify(document, n.riskRules, extraction.NeutralRisk)
	n.logExtraction(symbol, "overall_risk_rating", provenance)
	score, provenance := extraction.ExtractNumeric(document, n.riskScore)
	n.logExtraction(symbol, "risk_score", provenance)

	factorText := extraction.LocateSection(document, "Key risk factors", "Risk mitigation")
	if factorText == "" {
		factorText = extraction.LocateSection(document, "Risk factors", "")
	}
	mitigationText := extraction.LocateSection(document, "Risk mitigation", "")
	if mitigationText == "" {
		mitigationText = extraction.LocateSection(document, "Risk Management", "")
	}

	return RiskAnalysis{
		Symbol:            symbol,
		OverallRiskRating: rating,
		RiskScore:         score,
		FinancialRisks:    n.riskCategory(document, "Financial Risks"),
		MarketRisks:       n.riskCategory(document, "Market Risks"),
		OperationalRisks:  n.riskCategory(document, "Operational Risks"),
		RegulatoryRisks:   n.riskCategory(document, "Regulatory"),
		RiskFactors:       extraction.ExtractList(factorText, minListItemLength, maxRiskFactors),
		RiskMitigation:    extraction.ExtractList(mitigationText, minListItemLength, maxMitigations),
		RiskSummary:       extraction.LocateSection(document, "Risk Assessment", ""),
		GeneratedAt:       time.Now().UTC(),
	}
}

// sentimentBreakdown classifies and scores one named subsection. A missing
// section yields the neutral breakdown because every extractor falls back on
// empty input.
func (n *Normalizer) sentimentBreakdown(document, heading string) SentimentBreakdown {
	section := extraction.LocateSection(document, heading, "")
	sentiment, _ := extraction.Classify(section, n.sentimentRules, extraction.NeutralSentiment)
	score, _ := extraction.ExtractNumeric(section, n.sentimentScore)
	return SentimentBreakdown{
		Sentiment: sentiment,
		Score:     score,
		Summary:   truncate(section, sectionSummaryLimit),
	}
}

func (n *Normalizer) riskCategory(document, heading string) RiskCategory {
	section := extraction.LocateSection(document, heading, "")
	rating, _ := extraction.Classify(section, n.riskRules, extraction.NeutralRisk)
	score, _ := extraction.ExtractNumeric(section, n.riskScore)
	return RiskCategory{
		Rating:   rating,
		Score:    score,
		Summary:  truncate(section, sectionSummaryLimit),
		KeyRisks: extraction.ExtractList(section, minKeyRiskLength, maxKeyRisksPerArea),
	}
}

// DefaultMarketAnalysis is the all-defaults market record: every indicator at
// its fallback constant, narrative sections empty, the given text preserved
// as the analysis body.
func (n *Normalizer) DefaultMarketAnalysis(symbol, text string) MarketAnalysis {
	d := n.indicatorDefaults
	return MarketAnalysis{
		Symbol:   symbol,
		Analysis: text,
		TechnicalIndicators: map[string]float64{
			extraction.FieldRSI:        d.RSI,
			extraction.FieldMACD:       d.MACD,
			extraction.FieldSupport:    d.Support,
			extraction.FieldResistance: d.Resistance,
			extraction.FieldMA50:       d.MA50,
			extraction.FieldMA200:      d.MA200,
		},
		GeneratedAt: time.Now().UTC(),
	}
}

// DefaultSentimentAnalysis is the all-defaults sentiment record with the
// given text preserved as the summary.
func (n *Normalizer) DefaultSentimentAnalysis(symbol, text string) SentimentAnalysis {
	neutral := SentimentBreakdown{Sentiment: extraction.NeutralSentiment, Score: n.scoreDefault}
	return SentimentAnalysis{
		Symbol:           symbol,
		OverallSentiment: extraction.NeutralSentiment,
		SentimentScore:   n.scoreDefault,
		NewsSentiment:    neutral,
		SocialSentiment:  neutral,
		AnalystSentiment: neutral,
		SentimentDrivers: []string{},
		SentimentSummary: text,
		GeneratedAt:      time.Now().UTC(),
	}
}

// DefaultRiskAnalysis is the all-defaults risk record with the given text
// preserved as the summary.
func (n *Normalizer) DefaultRiskAnalysis(symbol, text string) RiskAnalysis {
	medium := RiskCategory{Rating: extraction.NeutralRisk, Score: n.scoreDefault, KeyRisks: []string{}}
	return RiskAnalysis{
		Symbol:            symbol,
		OverallRiskRating: extraction.NeutralRisk,
		RiskScore:         n.scoreDefault,
		FinancialRisks:    medium,
		MarketRisks:       medium,
		OperationalRisks:  medium,
		RegulatoryRisks:   medium,
		RiskFactors:       []string{},
		RiskMitigation:    []string{},
		RiskSummary:       text,
		GeneratedAt:       time.Now().UTC(),
	}
}

func (n *Normalizer) logExtraction(symbol, field string, provenance extraction.Provenance) {
	entry := n.logger.WithFields(logrus.Fields{"symbol": symbol, "field": field, "provenance": provenance})
	if provenance == extraction.FallbackDefault {
		entry.Debug("extraction miss, fallback applied")
		return
	}
	entry.Trace("field extracted")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
