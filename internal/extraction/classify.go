package extraction

import "regexp"

// LabelRule maps a keyword pattern to a categorical label. Rules are probed
// in order, so a specific label ("very bullish") must be listed before any
// generic counterpart it contains ("bullish").
type LabelRule struct {
	Label   string
	pattern *regexp.Regexp
	raw     string
}

// NewLabelRule compiles a case-insensitive keyword probe.
func NewLabelRule(pattern, label string) LabelRule {
	return LabelRule{
		Label:   label,
		pattern: regexp.MustCompile(`(?i)` + pattern),
		raw:     pattern,
	}
}

// Classify returns the label of the first rule whose pattern occurs anywhere
// in the text, or the fallback label when none match. Trial order is fixed,
// so classification is deterministic for a given rule list.
func Classify(text string, rules []LabelRule, fallback string) (string, Provenance) {
	for _, rule := range rules {
		if rule.pattern.MatchString(text) {
			return rule.Label, Provenance(rule.raw)
		}
	}
	return fallback, FallbackDefault
}
