package extraction

import (
	"regexp"
	"strings"
)

var (
	bulletItem   = regexp.MustCompile(`^\s*[-•*]\s+(.+)$`)
	numberedItem = regexp.MustCompile(`^\s*\d+\.\s*(.+)$`)
)

// ExtractList harvests bullet ("-", "•", "*") and numbered ("N.") list items
// from the text, one item per matching line, in document order. Items shorter
// than minLength characters are discarded as noise, and the result is
// truncated to maxItems. No list-like structure yields an empty slice, never
// an error.
func ExtractList(text string, minLength, maxItems int) []string {
	items := []string{}
	if maxItems <= 0 {
		return items
	}

	for _, line := range strings.Split(text, "\n") {
		m := bulletItem.FindStringSubmatch(line)
		if m == nil {
			m = numberedItem.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}

		item := strings.TrimSpace(m[1])
		if len(item) < minLength {
			continue
		}

		items = append(items, item)
		if len(items) == maxItems {
			break
		}
	}

	return items
}
