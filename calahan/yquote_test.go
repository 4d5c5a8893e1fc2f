package calahan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64     { return &v }

func TestYQuoteDatetimesUseExchangeTimezone(t *testing.T) {
	q := YQuote{
		Symbol:               "AAPL",
		ExchangeTimezoneName: "America/New_York",
		RegularMarketTime:    int64Ptr(1704315600), // 2024-01-03 16:00 EST
	}

	got, ok := q.RegularMarketDatetime()
	require.True(t, ok)
	assert.Equal(t, "America/New_York", got.Location().String())
	assert.Equal(t, 16, got.Hour())

	_, ok = q.PreMarketDatetime()
	assert.False(t, ok)
}

func TestYQuoteDatetimeUnknownTimezoneFallsBackToUTC(t *testing.T) {
	q := YQuote{
		Symbol:               "X",
		ExchangeTimezoneName: "Not/AZone",
		RegularMarketTime:    int64Ptr(0),
	}

	got, ok := q.RegularMarketDatetime()
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
}

func TestYQuoteFirstTradeDatetime(t *testing.T) {
	q := YQuote{
		Symbol:                     "AAPL",
		ExchangeTimezoneName:       "America/New_York",
		FirstTradeDateMilliseconds: 345479400000, // 1980-12-12 09:30 EST
	}

	got := q.FirstTradeDatetime()
	assert.Equal(t, 1980, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 12, got.Day())
}

func TestYQuoteString(t *testing.T) {
	q := YQuote{
		Symbol:                     "AAPL",
		ExchangeTimezoneName:       "America/New_York",
		RegularMarketPrice:         floatPtr(185.92),
		RegularMarketChangePercent: floatPtr(-0.5457),
		RegularMarketTime:          int64Ptr(1704315600),
	}

	assert.Equal(t, "YQuote(AAPL: 185.92 (-0.55%) -- 2024-01-03 16:00)", q.String())
}

func TestYQuoteStringWithMissingFields(t *testing.T) {
	q := YQuote{Symbol: "GHOST"}

	assert.Equal(t, "YQuote(GHOST: N/A (N/A) -- N/A)", q.String())
}

func TestYQuoteDecodeLeavesAbsentFieldsNil(t *testing.T) {
	var q YQuote
	require.NoError(t, json.Unmarshal([]byte(`{
		"symbol": "EURUSD=X",
		"quoteType": "CURRENCY",
		"currency": "USD",
		"regularMarketPrice": 1.0945
	}`), &q))

	assert.Equal(t, QuoteTypeCurrency, q.QuoteType)
	require.NotNil(t, q.RegularMarketPrice)
	assert.Nil(t, q.MarketCap)
	assert.Nil(t, q.TrailingPE)
	assert.Nil(t, q.RegularMarketVolume)
	assert.Nil(t, q.PriceHint)
}
