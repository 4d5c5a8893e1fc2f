package appui

import (
	"math"
	"sort"
	"strings"

	"github.com/doubloon-app/doubloon/calahan"
)

// Justify positions the text inside a table cell.
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyRight
)

// TickerColumnKey identifies the symbol column, which is always displayed
// first and cannot be removed.
const TickerColumnKey = "ticker"

// Column describes one column of the quote table: how to render a cell from
// a quote and how to order the table by it.
type Column struct {
	Key   string
	Name  string
	Width int
	// Justify positions cell text; most numeric columns are right-justified.
	Justify Justify
	// Format renders the cell text for a quote.
	Format func(q *calahan.YQuote) string
	// SortValue provides the numeric ordering key. Missing values sort
	// below everything. Unused for the ticker column, which orders
	// lexically by symbol.
	SortValue func(q *calahan.YQuote) float64
	// Sign classifies the value for coloring: 1 gaining, -1 losing, 0
	// neutral. Nil means always neutral.
	Sign func(q *calahan.YQuote) int
}

// columnOrder is the display order offered to the user, ticker first.
var columnOrder = []string{
	TickerColumnKey, "last", "change", "change_percent", "open", "low", "high",
	"52w_low", "52w_high", "volume", "avg_volume", "pe", "dividend", "market_cap",
}

var allColumns = map[string]Column{
	TickerColumnKey: {
		Key:     TickerColumnKey,
		Name:    "Ticker",
		Width:   8,
		Justify: JustifyLeft,
		Format:  func(q *calahan.YQuote) string { return strings.ToUpper(q.Symbol) },
	},
	"last": {
		Key:       "last",
		Name:      "Last",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.RegularMarketPrice, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.RegularMarketPrice) },
	},
	"change": {
		Key:       "change",
		Name:      "Change",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.RegularMarketChange, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.RegularMarketChange) },
		Sign:      func(q *calahan.YQuote) int { return sign(q.RegularMarketChange) },
	},
	"change_percent": {
		Key:       "change_percent",
		Name:      "Chg %",
		Width:     8,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsPercent(q.RegularMarketChangePercent) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.RegularMarketChangePercent) },
		Sign:      func(q *calahan.YQuote) int { return sign(q.RegularMarketChangePercent) },
	},
	"open": {
		Key:       "open",
		Name:      "Open",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.RegularMarketOpen, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.RegularMarketOpen) },
	},
	"low": {
		Key:       "low",
		Name:      "Low",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.RegularMarketDayLow, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.RegularMarketDayLow) },
	},
	"high": {
		Key:       "high",
		Name:      "High",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.RegularMarketDayHigh, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.RegularMarketDayHigh) },
	},
	"52w_low": {
		Key:       "52w_low",
		Name:      "52w Low",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.FiftyTwoWeekLow, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.FiftyTwoWeekLow) },
	},
	"52w_high": {
		Key:       "52w_high",
		Name:      "52w High",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.FiftyTwoWeekHigh, pricePrecision(q)) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.FiftyTwoWeekHigh) },
	},
	"volume": {
		Key:       "volume",
		Name:      "Volume",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsCompactInt(q.RegularMarketVolume) },
		SortValue: func(q *calahan.YQuote) float64 { return safeInt(q.RegularMarketVolume) },
	},
	"avg_volume": {
		Key:       "avg_volume",
		Name:      "Avg Vol",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsCompactInt(q.AverageDailyVolume3Month) },
		SortValue: func(q *calahan.YQuote) float64 { return safeInt(q.AverageDailyVolume3Month) },
	},
	"pe": {
		Key:       "pe",
		Name:      "P/E",
		Width:     6,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.TrailingPE, 2) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.TrailingPE) },
	},
	"dividend": {
		Key:       "dividend",
		Name:      "Div",
		Width:     6,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsFloat(q.DividendYield, 2) },
		SortValue: func(q *calahan.YQuote) float64 { return safeValue(q.DividendYield) },
	},
	"market_cap": {
		Key:       "market_cap",
		Name:      "Mkt Cap",
		Width:     10,
		Justify:   JustifyRight,
		Format:    func(q *calahan.YQuote) string { return AsCompactInt(q.MarketCap) },
		SortValue: func(q *calahan.YQuote) float64 { return safeInt(q.MarketCap) },
	},
}

// ColumnKeys returns every available column key in display order,
// the ticker column first.
func ColumnKeys() []string {
	return append([]string(nil), columnOrder...)
}

// ColumnByKey looks up a column definition.
func ColumnByKey(key string) (Column, bool) {
	col, ok := allColumns[key]
	return col, ok
}

// sortQuotes orders quotes in place by the given column. The ticker column
// orders lexically; every other column orders by its numeric sort value,
// with the lowercased symbol as tiebreaker. Missing values carry negative
// infinity so they sort before every real value.
func sortQuotes(quotes []*calahan.YQuote, col Column, descending bool) {
	sort.SliceStable(quotes, func(i, j int) bool {
		a, b := quotes[i], quotes[j]
		if descending {
			a, b = b, a
		}
		if col.Key == TickerColumnKey {
			return strings.ToLower(a.Symbol) < strings.ToLower(b.Symbol)
		}
		av, bv := col.SortValue(a), col.SortValue(b)
		if av != bv {
			return av < bv
		}
		return strings.ToLower(a.Symbol) < strings.ToLower(b.Symbol)
	})
}

func pricePrecision(q *calahan.YQuote) int {
	if q.PriceHint == nil {
		return 2
	}
	return *q.PriceHint
}

func safeValue(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}

func safeInt(v *int64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return float64(*v)
}

func sign(v *float64) int {
	switch {
	case v == nil:
		return 0
	case *v > 0:
		return 1
	case *v < 0:
		return -1
	default:
		return 0
	}
}
