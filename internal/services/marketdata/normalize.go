package marketdata

import (
	"strings"

	"StockTrack/internal/domain/models"

	"github.com/shopspring/decimal"
)

type searchResponse struct {
	Quotes []searchQuote `json:"quotes"`
}

type searchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
	Exchange  string `json:"exchange"`
	QuoteType string `json:"quoteType"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// chartMeta is the subset of the chart "meta" block we read. It is also the
// cached representation of a quote.
type chartMeta struct {
	Symbol             string  `json:"symbol"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	InstrumentType     string  `json:"instrumentType"`
	Timezone           string  `json:"exchangeTimezoneName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	PreviousClose      float64 `json:"previousClose"`
	DayHigh            float64 `json:"regularMarketDayHigh"`
	DayLow             float64 `json:"regularMarketDayLow"`
	Volume             int64   `json:"regularMarketVolume"`
	FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
}

// displayName prefers the long name, then the short name.
func displayName(long, short string) string {
	if n := strings.TrimSpace(long); n != "" {
		return n
	}
	if n := strings.TrimSpace(short); n != "" {
		return n
	}
	return models.UnknownName
}

func (m chartMeta) exchange() string {
	if m.FullExchangeName != "" {
		return m.FullExchangeName
	}
	return m.ExchangeName
}

func (m chartMeta) previousClose() float64 {
	if m.PreviousClose != 0 {
		return m.PreviousClose
	}
	return m.ChartPreviousClose
}

// change returns price minus previous close and the percent move, both
// rounded to two decimals. Percent is zero without a previous close.
func (m chartMeta) change() (float64, float64) {
	price := decimal.NewFromFloat(m.RegularMarketPrice)
	prev := decimal.NewFromFloat(m.previousClose())
	diff := price.Sub(prev)

	pct := decimal.Zero
	if !prev.IsZero() {
		pct = diff.Div(prev).Mul(decimal.NewFromInt(100))
	}
	return diff.Round(2).InexactFloat64(), pct.Round(2).InexactFloat64()
}

func (m chartMeta) summary() models.StockSummary {
	price := round2(m.RegularMarketPrice)
	change, pct := m.change()
	return models.StockSummary{
		Ticker:        m.Symbol,
		Name:          displayName(m.LongName, m.ShortName),
		Exchange:      m.exchange(),
		Price:         &price,
		Change:        &change,
		ChangePercent: &pct,
		Currency:      m.Currency,
	}
}

func (m chartMeta) details() models.StockDetails {
	change, pct := m.change()
	return models.StockDetails{
		Ticker:           m.Symbol,
		Name:             displayName(m.LongName, m.ShortName),
		Exchange:         m.exchange(),
		Currency:         m.Currency,
		Price:            round2(m.RegularMarketPrice),
		PreviousClose:    round2(m.previousClose()),
		Change:           change,
		ChangePercent:    pct,
		DayHigh:          round2(m.DayHigh),
		DayLow:           round2(m.DayLow),
		FiftyTwoWeekHigh: round2(m.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  round2(m.FiftyTwoWeekLow),
		Volume:           m.Volume,
		InstrumentType:   m.InstrumentType,
		Timezone:         m.Timezone,
	}
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
