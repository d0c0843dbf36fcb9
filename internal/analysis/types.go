// Package analysis turns raw language-model output into schema-complete,
// typed analysis records for one stock symbol. Every field of every record is
// always populated, either with an extracted value or a documented fallback,
// so consumers never branch on "missing".
package analysis

import "time"

// Kind selects the field schema applied to an analysis document.
type Kind string

const (
	KindMarket    Kind = "market"
	KindSentiment Kind = "sentiment"
	KindRisk      Kind = "risk"
)

// MarketAnalysis is the structured market/technical view for one symbol.
type MarketAnalysis struct {
	Symbol              string             `json:"symbol"`
	Analysis            string             `json:"analysis"`
	TechnicalIndicators map[string]float64 `json:"technical_indicators"`
	SectorAnalysis      string             `json:"sector_analysis"`
	CompetitivePosition string             `json:"competitive_position"`
	MarketOutlook       string             `json:"market_outlook"`
	GeneratedAt         time.Time          `json:"generated_at"`
}

// SentimentBreakdown is the per-source sentiment slice (news, social,
// analyst).
type SentimentBreakdown struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Summary   string  `json:"summary"`
}

// SentimentAnalysis is the structured sentiment view for one symbol.
// OverallSentiment is one of Very Bearish, Bearish, Neutral, Bullish,
// Very Bullish; SentimentScore lies in [0, 10].
type SentimentAnalysis struct {
	Symbol           string             `json:"symbol"`
	OverallSentiment string             `json:"overall_sentiment"`
	SentimentScore   float64            `json:"sentiment_score"`
	NewsSentiment    SentimentBreakdown `json:"news_sentiment"`
	SocialSentiment  SentimentBreakdown `json:"social_sentiment"`
	AnalystSentiment SentimentBreakdown `json:"analyst_sentiment"`
	SentimentDrivers []string           `json:"sentiment_drivers"`
	SentimentSummary string             `json:"sentiment_summary"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// RiskCategory is one assessed risk dimension (financial, market,
// operational, regulatory).
type RiskCategory struct {
	Rating   string   `json:"rating"`
	Score    float64  `json:"score"`
	Summary  string   `json:"summary"`
	KeyRisks []string `json:"key_risks"`
}

// RiskAnalysis is the structured risk view for one symbol. OverallRiskRating
// is one of Very Low, Low, Medium, High, Very High; RiskScore lies in
// [0, 10].
type RiskAnalysis struct {
	Symbol            string       `json:"symbol"`
	OverallRiskRating string       `json:"overall_risk_rating"`
	RiskScore         float64      `json:"risk_score"`
	FinancialRisks    RiskCategory `json:"financial_risks"`
	MarketRisks       RiskCategory `json:"market_risks"`
	OperationalRisks  RiskCategory `json:"operational_risks"`
	RegulatoryRisks   RiskCategory `json:"regulatory_risks"`
	RiskFactors       []string     `json:"risk_factors"`
	RiskMitigation    []string     `json:"risk_mitigation"`
	RiskSummary       string       `json:"risk_summary"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

// FullAnalysis bundles the three independent views produced for one symbol by
// a joint fan-out request.
type FullAnalysis struct {
	Symbol    string            `json:"symbol"`
	Market    MarketAnalysis    `json:"market"`
	Sentiment SentimentAnalysis `json:"sentiment"`
	Risk      RiskAnalysis      `json:"risk"`
}
