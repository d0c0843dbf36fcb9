// Package models holds the JSON-facing data types shared by the handlers and
// the upstream clients.
package models

// NewsItem is one curated news entry for a symbol. Field names follow the
// frontend contract (camelCase).
type NewsItem struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Headline    string `json:"headline"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Summary     string `json:"summary,omitempty"`
}
