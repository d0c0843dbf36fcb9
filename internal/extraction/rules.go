package extraction

// Field names for the market technical indicators. These double as the JSON
// keys the frontend expects.
const (
	FieldRSI        = "RSI"
	FieldMACD       = "MACD"
	FieldSupport    = "Support"
	FieldResistance = "Resistance"
	FieldMA50       = "50_day_ma"
	FieldMA200      = "200_day_ma"
)

// Neutral labels returned when no keyword probe matches.
const (
	NeutralSentiment = "Neutral"
	NeutralRisk      = "Medium"
)

// IndicatorDefaults holds the fallback constants for the technical indicator
// fields. The level placeholders are arbitrary usable numbers, not derived
// market values.
type IndicatorDefaults struct {
	RSI        float64
	MACD       float64
	Support    float64
	Resistance float64
	MA50       float64
	MA200      float64
}

// StandardIndicatorDefaults returns the documented fallback constants:
// RSI 50 is the neutral midpoint, the rest are placeholders.
func StandardIndicatorDefaults() IndicatorDefaults {
	return IndicatorDefaults{
		RSI:        50.0,
		MACD:       0.0,
		Support:    100.0,
		Resistance: 120.0,
		MA50:       110.0,
		MA200:      105.0,
	}
}

// IndicatorRules returns the ordered rule table for the market technical
// indicators. The slice order is significant: the 200-day moving average is
// listed before the 50-day one so its fully-qualified patterns win before the
// shorter label gets a chance to capture a nearby value that belongs to the
// other field.
func IndicatorRules(d IndicatorDefaults) []NumericRule {
	return []NumericRule{
		{
			Field: FieldRSI,
			Variants: []Variant{
				NewVariant("rsi-labeled", `RSI[:\s]*(\d+\.?\d*)`),
				NewVariant("rsi-spelled", `relative.*?strength.*?index[:\s]*(\d+\.?\d*)`),
				NewVariant("rsi-proximity", `RSI.*?(\d+\.?\d*)`),
			},
			Fallback: d.RSI,
		},
		{
			Field: FieldMACD,
			Variants: []Variant{
				NewVariant("macd-labeled", `MACD[:\s]*([+-]?\d+\.?\d*)`),
				NewVariant("macd-spelled", `moving.*?average.*?convergence[:\s]*([+-]?\d+\.?\d*)`),
				NewVariant("macd-proximity", `MACD.*?([+-]?\d+\.?\d*)`),
			},
			Fallback: d.MACD,
		},
		{
			Field: FieldSupport,
			Variants: []Variant{
				NewVariant("support-level-labeled", `support[:\s]*level[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("support-labeled", `support[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("support-longform", `support.*?level[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("key-support", `key.*?support[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("support-proximity", `support.*?[:\s]*\$?(\d+\.?\d*)`),
			},
			Fallback: d.Support,
		},
		{
			Field: FieldResistance,
			Variants: []Variant{
				NewVariant("resistance-level-labeled", `resistance[:\s]*level[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("resistance-labeled", `resistance[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("resistance-longform", `resistance.*?level[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("key-resistance", `key.*?resistance[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("resistance-proximity", `resistance.*?[:\s]*\$?(\d+\.?\d*)`),
			},
			Fallback: d.Resistance,
		},
		{
			Field: FieldMA200,
			Variants: []Variant{
				NewVariant("ma200-labeled", `200[- ]?day.*?moving average[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("ma200-abbrev", `200[- ]?day.*?MA[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("ma200-loose", `200.*?day.*?average[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("ma200-spelled", `two.*?hundred.*?day.*?moving.*?average[:\s]*\$?(\d+\.?\d*)`),
			},
			Fallback: d.MA200,
		},
		{
			Field: FieldMA50,
			Variants: []Variant{
				NewVariant("ma50-labeled", `50[- ]?day.*?moving average[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("ma50-abbrev", `50[- ]?day.*?MA[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("ma50-loose", `50.*?day.*?average[:\s]*\$?(\d+\.?\d*)`),
				NewVariant("ma50-spelled", `fifty.*?day.*?moving.*?average[:\s]*\$?(\d+\.?\d*)`),
			},
			Fallback: d.MA50,
		},
	}
}

// SentimentScoreRule extracts a 0-10 sentiment score from phrasings like
// "7.5/10", "score: 8" or "8 out of 10". Out-of-range captures clamp into the
// scale instead of being rejected.
func SentimentScoreRule(fallback float64) NumericRule {
	return NumericRule{
		Field: "sentiment_score",
		Variants: []Variant{
			NewVariant("score-out-of-ten", `(\d+\.?\d*)\s*/\s*10`),
			NewVariant("score-labeled", `score[:\s]*(\d+\.?\d*)`),
			NewVariant("score-spelled", `(\d+\.?\d*)\s*out of 10`),
			NewVariant("rating-labeled", `rating[:\s]*(\d+\.?\d*)`),
		},
		Fallback: fallback,
	}.WithRange(0, 10)
}

// RiskScoreRule mirrors SentimentScoreRule with the explicit "risk score"
// label tried first.
func RiskScoreRule(fallback float64) NumericRule {
	return NumericRule{
		Field: "risk_score",
		Variants: []Variant{
			NewVariant("risk-score-labeled", `risk\s*score[:\s]*(\d+\.?\d*)`),
			NewVariant("score-out-of-ten", `(\d+\.?\d*)\s*/\s*10`),
			NewVariant("score-spelled", `(\d+\.?\d*)\s*out of 10`),
			NewVariant("rating-labeled", `rating[:\s]*(\d+\.?\d*)`),
		},
		Fallback: fallback,
	}.WithRange(0, 10)
}

// SentimentLabelRules returns the ordered sentiment probes. The intensified
// labels come first because probe order, not specificity scoring, decides the
// winner.
func SentimentLabelRules() []LabelRule {
	return []LabelRule{
		NewLabelRule(`very bullish`, "Very Bullish"),
		NewLabelRule(`very bearish`, "Very Bearish"),
		NewLabelRule(`bullish`, "Bullish"),
		NewLabelRule(`bearish`, "Bearish"),
		NewLabelRule(`neutral`, "Neutral"),
		NewLabelRule(`positive`, "Bullish"),
		NewLabelRule(`negative`, "Bearish"),
	}
}

// RiskLabelRules returns the ordered risk rating probes, intensified labels
// first.
func RiskLabelRules() []LabelRule {
	return []LabelRule{
		NewLabelRule(`very high risk`, "Very High"),
		NewLabelRule(`very low risk`, "Very Low"),
		NewLabelRule(`high risk`, "High"),
		NewLabelRule(`moderate risk`, "Medium"),
		NewLabelRule(`medium risk`, "Medium"),
		NewLabelRule(`low risk`, "Low"),
	}
}
