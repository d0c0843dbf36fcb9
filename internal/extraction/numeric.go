package extraction

import (
	"regexp"
	"strconv"
)

// Provenance records which pattern variant produced a field value, or that the
// documented fallback constant was substituted.
type Provenance string

// FallbackDefault marks a value that was not extracted from the document.
const FallbackDefault Provenance = "fallback-default"

// Variant is one regex pattern among the ordered set tried for a single
// field. Each pattern carries exactly one capture group holding the candidate
// value.
type Variant struct {
	Name    string
	pattern *regexp.Regexp
}

// NewVariant compiles a named pattern variant. Patterns are matched
// case-insensitively and may span newlines, so lazy quantifiers are expected
// between the field label and the captured number.
func NewVariant(name, pattern string) Variant {
	return Variant{
		Name:    name,
		pattern: regexp.MustCompile(`(?is)` + pattern),
	}
}

// NumericRule is the ordered variant cascade for one numeric field, from most
// specific to most permissive, plus the fallback constant substituted when no
// variant yields a parseable number.
type NumericRule struct {
	Field    string
	Variants []Variant
	Fallback float64

	clamped  bool
	min, max float64
}

// WithRange clamps every extracted value into [min, max]. The fallback
// constant is assumed to already lie inside the range.
func (r NumericRule) WithRange(min, max float64) NumericRule {
	r.clamped = true
	r.min = min
	r.max = max
	return r
}

// ExtractNumeric tries the rule's variants strictly in order against the full
// document and returns the first parseable value together with the name of the
// winning variant. A capture that fails float parsing counts as a non-match
// and scanning continues. When nothing matches the fallback constant is
// returned with FallbackDefault provenance.
func ExtractNumeric(document string, rule NumericRule) (float64, Provenance) {
	for _, variant := range rule.Variants {
		m := variant.pattern.FindStringSubmatch(document)
		if m == nil || len(m) < 2 {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return rule.clamp(value), Provenance(variant.Name)
	}
	return rule.Fallback, FallbackDefault
}

func (r NumericRule) clamp(v float64) float64 {
	if !r.clamped {
		return v
	}
	if v < r.min {
		return r.min
	}
	if v > r.max {
		return r.max
	}
	return v
}
