package models

// StockSummary is a normalized quote or search hit. Price fields are nil for
// search results, which carry no quote.
type StockSummary struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Exchange      string   `json:"exchange,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	Currency      string   `json:"currency,omitempty"`
}

// StockDetails is the extended quote shown on a stock page.
type StockDetails struct {
	Ticker           string  `json:"ticker"`
	Name             string  `json:"name"`
	Exchange         string  `json:"exchange"`
	Currency         string  `json:"currency"`
	Price            float64 `json:"price"`
	PreviousClose    float64 `json:"previousClose"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	DayHigh          float64 `json:"dayHigh"`
	DayLow           float64 `json:"dayLow"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
	Volume           int64   `json:"volume"`
	InstrumentType   string  `json:"instrumentType"`
	Timezone         string  `json:"timezone"`
}

type SearchQuery struct {
	Query string `query:"query" validate:"max=128"`
}

type SearchResponse struct {
	Stocks []StockSummary `json:"stocks"`
}

type StockDetailsResponse struct {
	StockDetails StockDetails `json:"stockDetails"`
}
