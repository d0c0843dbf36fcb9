package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNewsItems(t *testing.T) {
	t.Run("plain json array", func(t *testing.T) {
		reply := `[{"source": "Reuters", "headline": "Quarterly results beat estimates", "url": "https://example.com/a"}]`
		items, err := ExtractNewsItems(reply, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Reuters", items[0].Source)
		assert.Equal(t, "Quarterly results beat estimates", items[0].Headline)
		assert.NotEmpty(t, items[0].ID)
	})

	t.Run("fenced code block", func(t *testing.T) {
		reply := "Here is the digest:\n```json\n[{\"headline\": \"Chip demand accelerates\"}]\n```\nLet me know if you need more."
		items, err := ExtractNewsItems(reply, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Chip demand accelerates", items[0].Headline)
	})

	t.Run("array surrounded by prose", func(t *testing.T) {
		reply := `Sure! [{"headline": "Guidance raised for the year"}] Hope that helps.`
		items, err := ExtractNewsItems(reply, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("empty headlines dropped", func(t *testing.T) {
		reply := `[{"headline": ""}, {"headline": "  "}, {"headline": "Kept item"}]`
		items, err := ExtractNewsItems(reply, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Kept item", items[0].Headline)
	})

	t.Run("missing source defaults to Unknown", func(t *testing.T) {
		reply := `[{"headline": "No publisher named"}]`
		items, err := ExtractNewsItems(reply, 10)
		require.NoError(t, err)
		assert.Equal(t, "Unknown", items[0].Source)
	})

	t.Run("limit truncates", func(t *testing.T) {
		reply := `[{"headline": "First story"}, {"headline": "Second story"}, {"headline": "Third story"}]`
		items, err := ExtractNewsItems(reply, 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("no array is an error", func(t *testing.T) {
		_, err := ExtractNewsItems("I could not find any recent news.", 10)
		assert.Error(t, err)
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		_, err := ExtractNewsItems(`[{"headline": }]`, 10)
		assert.Error(t, err)
	})

	t.Run("provided id preserved", func(t *testing.T) {
		reply := `[{"id": "abc-123", "headline": "Story with id"}]`
		items, err := ExtractNewsItems(reply, 10)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", items[0].ID)
	})
}
