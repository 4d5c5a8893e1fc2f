package calahan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCrumb = "test-crumb"

// newTestServer returns a server that mimics the Yahoo! login, crumb and
// data endpoints. Data endpoints are routed through handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:    "A3",
			Value:   "session",
			Expires: time.Now().Add(24 * time.Hour),
		})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(crumbPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testCrumb))
	})
	mux.HandleFunc(quoteAPI, handler)
	mux.HandleFunc(searchAPI, handler)
	mux.HandleFunc(autocompleteAPI, handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestYFinance wires a YFinance client to the test server.
func newTestYFinance(srv *httptest.Server) *YFinance {
	yf := New(Options{
		BaseURL:         srv.URL,
		Timeout:         5 * time.Second,
		RequestsPerSec:  1000,
		MaxRetryElapsed: 2 * time.Second,
	})
	yf.client.financeURL = srv.URL
	yf.client.consentURL = srv.URL
	return yf
}

const sampleQuotePayload = `{
	"quoteResponse": {
		"result": [
			{
				"symbol": "AAPL",
				"shortName": "Apple Inc.",
				"longName": "Apple Inc.",
				"quoteType": "EQUITY",
				"marketState": "REGULAR",
				"currency": "USD",
				"customPriceAlertConfidence": "HIGH",
				"exchange": "NMS",
				"fullExchangeName": "NasdaqGS",
				"exchangeTimezoneName": "America/New_York",
				"exchangeTimezoneShortName": "EST",
				"regularMarketPrice": 185.92,
				"regularMarketChange": -1.02,
				"regularMarketChangePercent": -0.5457,
				"regularMarketVolume": 42628803,
				"regularMarketTime": 1704315600,
				"marketCap": 2890588422144,
				"trailingPE": 30.318,
				"priceHint": 2,
				"firstTradeDateMilliseconds": 345479400000
			},
			null,
			{
				"symbol": "BTC-USD",
				"shortName": "Bitcoin USD",
				"quoteType": "CRYPTOCURRENCY",
				"marketState": "REGULAR",
				"currency": "USD",
				"customPriceAlertConfidence": "HIGH",
				"exchange": "CCC",
				"exchangeTimezoneName": "UTC",
				"regularMarketPrice": 42845.94,
				"circulatingSupply": 19592284,
				"volume24Hr": 23491872768,
				"fromCurrency": "BTC",
				"toCurrency": "USD="
			}
		],
		"error": null
	}
}`

func TestRetrieveQuotes(t *testing.T) {
	var gotQuery atomic.Value
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleQuotePayload))
	})
	yf := newTestYFinance(srv)
	defer yf.Close()

	quotes, err := yf.RetrieveQuotes(context.Background(), []string{" AAPL ", "BTC-USD"})
	require.NoError(t, err)
	require.Len(t, quotes, 3) // includes the null entry decoded as zero value

	aapl := quotes[0]
	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, QuoteTypeEquity, aapl.QuoteType)
	assert.Equal(t, MarketStateRegular, aapl.MarketState)
	require.NotNil(t, aapl.RegularMarketPrice)
	assert.InDelta(t, 185.92, *aapl.RegularMarketPrice, 1e-9)
	require.NotNil(t, aapl.RegularMarketChangePercent)
	assert.InDelta(t, -0.5457, *aapl.RegularMarketChangePercent, 1e-9)
	require.NotNil(t, aapl.MarketCap)
	assert.Equal(t, int64(2890588422144), *aapl.MarketCap)
	require.NotNil(t, aapl.PriceHint)
	assert.Equal(t, 2, *aapl.PriceHint)

	btc := quotes[2]
	assert.Equal(t, QuoteTypeCryptocurrency, btc.QuoteType)
	require.NotNil(t, btc.CirculatingSupply)
	assert.Equal(t, int64(19592284), *btc.CirculatingSupply)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, "AAPL,BTC-USD", query["symbols"][0])
	assert.Equal(t, testCrumb, query["crumb"][0])
}

func TestRetrieveQuotesNoSymbols(t *testing.T) {
	srv := newTestServer(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for an empty symbol list")
	})
	yf := newTestYFinance(srv)
	defer yf.Close()

	_, err := yf.RetrieveQuotes(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMarketData)
}

func TestRetrieveQuotesProviderError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"quoteResponse": {
				"result": [],
				"error": {"code": "Bad Request", "description": "Invalid symbol"}
			}
		}`))
	})
	yf := newTestYFinance(srv)
	defer yf.Close()

	quotes, err := yf.RetrieveQuotes(context.Background(), []string{"NOPE"})
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{
			"count": 2,
			"quotes": [
				{
					"symbol": "AAPL",
					"shortname": "Apple Inc.",
					"longname": "Apple Inc.",
					"exchange": "NMS",
					"exchDisp": "NASDAQ",
					"quoteType": "EQUITY",
					"typeDisp": "Equity",
					"score": 31426.0,
					"isYahooFinance": true,
					"sector": "Technology",
					"industryDisp": "Consumer Electronics",
					"nameChangeDate": "2007-01-09"
				}
			],
			"news": [
				{
					"uuid": "abc-123",
					"title": "Apple rises",
					"publisher": "Newswire",
					"link": "https://example.com/apple",
					"providerPublishTime": 1704315600,
					"type": "STORY",
					"relatedTickers": ["AAPL"]
				}
			],
			"nav": [{"navName": "Technology", "navUrl": "https://finance.yahoo.com/sector/technology"}]
		}`))
	})
	yf := newTestYFinance(srv)
	defer yf.Close()

	result, err := yf.Search(context.Background(), "apple")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Quotes, 1)
	quote := result.Quotes[0]
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Apple Inc.", quote.LongName)
	assert.Equal(t, QuoteTypeEquity, quote.QuoteType)
	assert.True(t, quote.IsYahooFinance)
	assert.Equal(t, "Technology", quote.Sector)
	assert.Equal(t, 2007, quote.NameChangeDate.Year())

	require.Len(t, result.News, 1)
	assert.Equal(t, "Apple rises", result.News[0].Title)
	assert.Equal(t, []string{"AAPL"}, result.News[0].RelatedTickers)

	require.Len(t, result.Nav, 1)
	assert.Equal(t, "Technology", result.Nav[0].Name)
}

func TestRetrieveAutocompletes(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{
			"ResultSet": {
				"Query": "app",
				"Result": [
					{"symbol": "AAPL", "name": "Apple Inc.", "exch": "NAS", "type": "S", "exchDisp": "NASDAQ", "typeDisp": "Equity"},
					{"symbol": "^GSPC", "name": "S&P 500", "exch": "WCB", "type": "I", "exchDisp": "Chicago", "typeDisp": "Index"}
				]
			}
		}`))
	})
	yf := newTestYFinance(srv)
	defer yf.Close()

	query, entries, err := yf.RetrieveAutocompletes(context.Background(), "app")
	require.NoError(t, err)
	assert.Equal(t, "app", query)
	require.Len(t, entries, 2)
	assert.Equal(t, "AAPL", entries[0].Symbol)
	assert.Equal(t, QuoteTypeEquity, entries[0].Type())
	assert.Equal(t, QuoteTypeIndex, entries[1].Type())
}

func TestRetrieveQuotesTransportError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	yf := newTestYFinance(srv)
	defer yf.Close()

	_, err := yf.RetrieveQuotes(context.Background(), []string{"AAPL"})
	require.Error(t, err)

	var reqErr *MarketDataRequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
	assert.False(t, reqErr.IsRetryable())
}
