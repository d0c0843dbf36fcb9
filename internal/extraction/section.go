// Package extraction implements the best-effort parsers that pull structured
// fields out of free-form analysis text produced by a language model. All
// extractors are pure functions over the input text: the same document always
// yields the same values, and a miss resolves to a documented fallback rather
// than an error.
package extraction

import (
	"regexp"
	"strings"
)

// headingPattern builds a case-insensitive matcher for a section heading,
// tolerating optional markdown emphasis markers around the heading text.
func headingPattern(heading string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\*?\*?` + regexp.QuoteMeta(heading) + `\*?\*?`)
}

// LocateSection returns the trimmed text between the first occurrence of
// startHeading and the first subsequent occurrence of endHeading. When
// endHeading is empty or never occurs after the start match, the remainder of
// the document is returned. An empty string is the defined "not found" signal
// when startHeading does not occur at all.
func LocateSection(document, startHeading, endHeading string) string {
	if startHeading == "" {
		return ""
	}

	startLoc := headingPattern(startHeading).FindStringIndex(document)
	if startLoc == nil {
		return ""
	}

	rest := document[startLoc[1]:]
	if endHeading != "" {
		if endLoc := headingPattern(endHeading).FindStringIndex(rest); endLoc != nil {
			return strings.TrimSpace(rest[:endLoc[0]])
		}
	}

	return strings.TrimSpace(rest)
}
