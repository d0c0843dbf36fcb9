package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOverview combines quote, profile and financial metrics into one
// frontend-facing snapshot.
type StockOverview struct {
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"companyName,omitempty"`
	Industry      string          `json:"industry,omitempty"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Open          decimal.Decimal `json:"open"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	MarketCap     decimal.Decimal `json:"marketCap,omitempty"`
	PERatio       decimal.Decimal `json:"peRatio,omitempty"`
	Week52High    decimal.Decimal `json:"week52High,omitempty"`
	Week52Low     decimal.Decimal `json:"week52Low,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TopMover is one entry in the gainers/losers screen.
type TopMover struct {
	Symbol        string          `json:"symbol"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// TopMovers is the gainers/losers response.
type TopMovers struct {
	Gainers   []TopMover `json:"gainers"`
	Losers    []TopMover `json:"losers"`
	Timestamp time.Time  `json:"timestamp"`
	Mock      bool       `json:"mock,omitempty"`
}
