package marketdata

// Quote is the real-time quote payload. Field tags follow the provider's
// compact naming.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// CompanyProfile is the company metadata payload.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Industry             string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
}

// Candles is the historical OHLCV payload in the provider's columnar format.
// Status is "ok" or "no_data".
type Candles struct {
	Open      []float64 `json:"o"`
	High      []float64 `json:"h"`
	Low       []float64 `json:"l"`
	Close     []float64 `json:"c"`
	Volume    []float64 `json:"v"`
	Timestamp []int64   `json:"t"`
	Status    string    `json:"s"`
}

// CompanyNewsItem is one provider-sourced news article.
type CompanyNewsItem struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// BasicFinancials carries the metric map; only a handful of keys are read.
type BasicFinancials struct {
	Metric map[string]float64 `json:"metric"`
}

// Earning is one quarterly earnings record.
type Earning struct {
	Actual   float64 `json:"actual"`
	Estimate float64 `json:"estimate"`
	Period   string  `json:"period"`
	Quarter  int     `json:"quarter"`
	Surprise float64 `json:"surprise"`
	Symbol   string  `json:"symbol"`
	Year     int     `json:"year"`
}

// SymbolSearchResult is the symbol lookup payload.
type SymbolSearchResult struct {
	Count  int            `json:"count"`
	Result []SymbolResult `json:"result"`
}

// SymbolResult is one symbol lookup hit.
type SymbolResult struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

type errorResponse struct {
	Error string `json:"error"`
}
