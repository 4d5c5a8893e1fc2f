package calahan

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	quoteAPI        = "/v7/finance/quote"
	autocompleteAPI = "/v6/finance/autocomplete"
	searchAPI       = "/v1/finance/search"
)

// Options holds options for creating a YFinance client.
type Options struct {
	// QuoteAPI overrides the endpoint for quote retrieval.
	QuoteAPI string
	// AutocompleteAPI overrides the endpoint for autocomplete retrieval.
	AutocompleteAPI string
	// SearchAPI overrides the endpoint for symbol search.
	SearchAPI string
	// BaseURL overrides the query host, mainly for tests.
	BaseURL string
	// Timeout bounds each HTTP request. Defaults to 15s.
	Timeout time.Duration
	// RequestsPerSec caps the client-side request rate. Defaults to 5.
	RequestsPerSec int
	// MaxRetryElapsed bounds the exponential-backoff retry window.
	// Defaults to 30s.
	MaxRetryElapsed time.Duration
}

// YFinance is the interface to the Yahoo! Finance API.
type YFinance struct {
	client *yClient
	logger zerolog.Logger

	quoteAPI        string
	autocompleteAPI string
	searchAPI       string
}

// New creates a new Yahoo! Finance API client.
func New(opts Options) *YFinance {
	if opts.QuoteAPI == "" {
		opts.QuoteAPI = quoteAPI
	}
	if opts.AutocompleteAPI == "" {
		opts.AutocompleteAPI = autocompleteAPI
	}
	if opts.SearchAPI == "" {
		opts.SearchAPI = searchAPI
	}

	return &YFinance{
		client: newYClient(clientOptions{
			Timeout:         opts.Timeout,
			RequestsPerSec:  opts.RequestsPerSec,
			MaxRetryElapsed: opts.MaxRetryElapsed,
			QueryURL:        opts.BaseURL,
		}),
		logger:          newComponentLogger("yfinance"),
		quoteAPI:        opts.QuoteAPI,
		autocompleteAPI: opts.AutocompleteAPI,
		searchAPI:       opts.SearchAPI,
	}
}

// Prime warms the client's session (cookies and crumb) ahead of the first
// data request.
func (y *YFinance) Prime(ctx context.Context) {
	y.client.Prime(ctx)
}

// Close releases resources held by the client.
func (y *YFinance) Close() {
	y.client.Close()
}

// quoteEnvelope mirrors the /v7/finance/quote response.
type quoteEnvelope struct {
	QuoteResponse struct {
		Result []YQuote `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// RetrieveQuotes retrieves quotes for the given symbols.
//
// Provider-side rejections reported inside the response envelope are logged
// and yield an empty slice; transport and decoding failures return an
// error.
func (y *YFinance) RetrieveQuotes(ctx context.Context, symbols []string) ([]YQuote, error) {
	if len(symbols) == 0 {
		y.logger.Error().Msg("no symbols provided")
		return nil, &MarketDataMalformedError{Context: "empty symbol list"}
	}

	stripped := make([]string, 0, len(symbols))
	for _, s := range symbols {
		stripped = append(stripped, strings.TrimSpace(s))
	}

	var envelope quoteEnvelope
	params := url.Values{"symbols": {strings.Join(stripped, ",")}}
	if err := y.client.Call(ctx, y.quoteAPI, params, &envelope); err != nil {
		return nil, err
	}

	if envelope.QuoteResponse.Error != nil {
		y.logger.Error().
			Str("code", envelope.QuoteResponse.Error.Code).
			Str("description", envelope.QuoteResponse.Error.Description).
			Msg("error getting response data from Yahoo!")
		return []YQuote{}, nil
	}

	return envelope.QuoteResponse.Result, nil
}

// Search retrieves search results (quotes, news, lists) for the given
// query.
func (y *YFinance) Search(ctx context.Context, query string) (*YSearchResult, error) {
	var result YSearchResult
	params := url.Values{"q": {query}}
	if err := y.client.Call(ctx, y.searchAPI, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// autocompleteEnvelope mirrors the /v6/finance/autocomplete response.
type autocompleteEnvelope struct {
	ResultSet struct {
		Query  string          `json:"Query"`
		Result []YAutocomplete `json:"Result"`
	} `json:"ResultSet"`
}

// RetrieveAutocompletes retrieves autocomplete entries for the given query.
// The query is returned alongside the entries so callers can discard stale
// responses.
func (y *YFinance) RetrieveAutocompletes(ctx context.Context, query string) (string, []YAutocomplete, error) {
	var envelope autocompleteEnvelope
	params := url.Values{"query": {query}}
	if err := y.client.Call(ctx, y.autocompleteAPI, params, &envelope); err != nil {
		return query, nil, err
	}
	return query, envelope.ResultSet.Result, nil
}
