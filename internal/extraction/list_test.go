package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractList(t *testing.T) {
	t.Run("bullet markers", func(t *testing.T) {
		text := "- Strong earnings momentum continues\n• Expanding services revenue base\n* Buyback program accelerating fast"
		items := ExtractList(text, 10, 10)
		assert.Equal(t, []string{
			"Strong earnings momentum continues",
			"Expanding services revenue base",
			"Buyback program accelerating fast",
		}, items)
	})

	t.Run("numbered items", func(t *testing.T) {
		text := "1. Supply chain concentration risk\n2. Regulatory scrutiny in the EU"
		items := ExtractList(text, 10, 10)
		assert.Equal(t, []string{
			"Supply chain concentration risk",
			"Regulatory scrutiny in the EU",
		}, items)
	})

	t.Run("mixed markers keep document order", func(t *testing.T) {
		text := "1. First numbered risk item here\n- A bullet item in the middle\n2. Second numbered risk item here"
		items := ExtractList(text, 10, 10)
		assert.Equal(t, []string{
			"First numbered risk item here",
			"A bullet item in the middle",
			"Second numbered risk item here",
		}, items)
	})

	t.Run("short items discarded", func(t *testing.T) {
		text := "- short\n- This one is long enough to keep"
		items := ExtractList(text, 10, 10)
		assert.Equal(t, []string{"This one is long enough to keep"}, items)
	})

	t.Run("max items truncates", func(t *testing.T) {
		text := "- Item number one is long enough\n- Item number two is long enough\n- Item number three is long enough"
		items := ExtractList(text, 10, 2)
		assert.Len(t, items, 2)
	})

	t.Run("no list yields empty slice", func(t *testing.T) {
		items := ExtractList("Just a paragraph of prose without any list structure.", 10, 10)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("bold headings are not bullets", func(t *testing.T) {
		text := "**News Sentiment**\n**Social Media**\n- Product cycle strength drives coverage\n- Institutional accumulation continues"
		items := ExtractList(text, 10, 10)
		assert.Equal(t, []string{
			"Product cycle strength drives coverage",
			"Institutional accumulation continues",
		}, items)
	})

	t.Run("indented bullets accepted", func(t *testing.T) {
		items := ExtractList("   - An indented bullet item here", 10, 10)
		assert.Equal(t, []string{"An indented bullet item here"}, items)
	})

	t.Run("zero max items", func(t *testing.T) {
		items := ExtractList("- Something long enough to match", 10, 0)
		assert.Empty(t, items)
	})
}
