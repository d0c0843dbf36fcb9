package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/finsight/market-analysis-go/internal/models"
)

// GenerateNews asks the model for a curated news digest and parses the JSON
// array out of its reply. Items without a headline are dropped; missing IDs
// are filled in.
func (c *Client) GenerateNews(ctx context.Context, symbol string, limit, lookbackDays int) ([]models.NewsItem, error) {
	reply, err := c.Complete(ctx,
		"You are a financial news curator. You respond with strict JSON only.",
		newsPrompt(symbol, limit, lookbackDays))
	if err != nil {
		return nil, err
	}

	items, err := ExtractNewsItems(reply, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news reply for %s: %w", symbol, err)
	}
	return items, nil
}

// ExtractNewsItems pulls a JSON array of news items out of a model reply.
// The array may be wrapped in a fenced code block or surrounded by prose; the
// first '[' through the last ']' is taken as the candidate document.
func ExtractNewsItems(reply string, limit int) ([]models.NewsItem, error) {
	payload := reply
	if i := strings.Index(payload, "```json"); i >= 0 {
		payload = payload[i+len("```json"):]
		if j := strings.Index(payload, "```"); j >= 0 {
			payload = payload[:j]
		}
	}

	start := strings.Index(payload, "[")
	end := strings.LastIndex(payload, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in reply")
	}

	var raw []models.NewsItem
	if err := json.Unmarshal([]byte(payload[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("invalid news JSON: %w", err)
	}

	items := make([]models.NewsItem, 0, len(raw))
	for _, item := range raw {
		if strings.TrimSpace(item.Headline) == "" {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Source == "" {
			item.Source = "Unknown"
		}
		items = append(items, item)
		if limit > 0 && len(items) == limit {
			break
		}
	}

	return items, nil
}
