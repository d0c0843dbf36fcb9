package ai

import (
	"fmt"

	"github.com/finsight/market-analysis-go/internal/analysis"
)

func analysisPrompts(symbol string, kind analysis.Kind) (system, user string, err error) {
	switch kind {
	case analysis.KindMarket:
		return "You are an expert financial market analyst.", marketPrompt(symbol), nil
	case analysis.KindSentiment:
		return "You are an expert financial sentiment analyst.", sentimentPrompt(symbol), nil
	case analysis.KindRisk:
		return "You are an expert financial risk analyst.", riskPrompt(symbol), nil
	default:
		return "", "", fmt.Errorf("unknown analysis kind: %q", kind)
	}
}

func marketPrompt(symbol string) string {
	return fmt.Sprintf(`Provide a comprehensive market analysis for %s.

Cover the following, with specific data points:

1. **Technical Analysis**:
   - Current price trends and momentum
   - Key support and resistance levels
   - Moving averages (50-day, 200-day)
   - Technical indicators (RSI, MACD, Bollinger Bands)

2. **Sector Analysis**:
   - Current sector performance and trends
   - How %s compares to sector peers
   - Sector-specific catalysts and headwinds

3. **Market Context**:
   - Overall market conditions and sentiment
   - Economic factors affecting the stock and sector
   - Recent earnings performance vs expectations

4. **Competitive Analysis**:
   - Key competitors and market positioning
   - Competitive advantages and disadvantages

5. **Market Outlook**:
   - Short-term (1-3 months) and medium-term (6-12 months) outlook
   - Key catalysts to watch

Structure your response as a detailed analysis with clear sections and
specific numbers for every technical indicator.`, symbol, symbol)
}

func sentimentPrompt(symbol string) string {
	return fmt.Sprintf(`Provide a comprehensive sentiment analysis for %s.

Cover the following sections:

1. **News Sentiment**: sentiment trends in recent news coverage and the key
   drivers behind them.
2. **Social Media**: retail and social sentiment trends and momentum changes.
3. **Analyst Sentiment**: recent ratings, price target revisions and
   institutional positioning.
4. **Overall Sentiment Assessment**:
   - Aggregate sentiment score on a 0-10 scale (e.g. "7.5/10")
   - Sentiment classification (Very Bearish, Bearish, Neutral, Bullish, Very Bullish)
   - Key sentiment drivers as a bulleted list

Assign numerical sentiment scores per section where possible and structure
the response with clear headings.`, symbol)
}

func riskPrompt(symbol string) string {
	return fmt.Sprintf(`Provide a comprehensive risk analysis for %s.

Cover the following sections:

1. **Financial Risks**: debt levels, liquidity, margins, earnings volatility.
2. **Market Risks**: volatility, systematic risk, sector cyclicality, rates.
3. **Operational Risks**: business model threats, supply chain, technology,
   key person risk.
4. **Regulatory** and external risks: compliance, ESG, geopolitical exposure,
   litigation.
5. **Risk Assessment**:
   - Overall risk rating (Very Low, Low, Medium, High, Very High)
   - Risk score on a 0-10 scale (e.g. "risk score: 6.5")
   - Key risk factors as a bulleted list, ranked by severity
6. **Risk mitigation**: the company's mitigation strategies and controls as a
   bulleted list.

Assign numerical risk scores per section where possible and structure the
response with clear headings.`, symbol)
}

func newsPrompt(symbol string, limit, lookbackDays int) string {
	return fmt.Sprintf(`Find the %d most significant news stories about %s from the last %d days.

Respond with ONLY a JSON array, no prose before or after, where each element
has this shape:

[
  {
    "source": "publisher name",
    "headline": "the headline",
    "url": "https://...",
    "publishedAt": "2024-01-15T09:30:00Z",
    "summary": "one or two sentence summary"
  }
]

Order the array from most to least significant.`, limit, symbol, lookbackDays)
}
