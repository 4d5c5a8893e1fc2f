package appui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doubloon-app/doubloon/calahan"
)

// QuoteSource is the slice of the market data client the UI depends on.
// *calahan.YFinance satisfies it.
type QuoteSource interface {
	Prime(ctx context.Context)
	RetrieveQuotes(ctx context.Context, symbols []string) ([]calahan.YQuote, error)
	Search(ctx context.Context, query string) (*calahan.YSearchResult, error)
}

// Recorder journals refreshed quotes. A nil Recorder disables journaling.
type Recorder interface {
	Record(ctx context.Context, quotes []calahan.YQuote) error
}

// primedMsg signals that the market data session warm-up has finished.
// Warm-up failures are logged by the client and retried on first use.
type primedMsg struct{}

// quotesMsg carries the result of one watchlist refresh.
type quotesMsg struct {
	quotes []calahan.YQuote
	err    error
}

// searchMsg carries the result of a symbol search. The query is echoed back
// so stale responses can be discarded.
type searchMsg struct {
	query  string
	result *calahan.YSearchResult
	err    error
}

// refreshTickMsg triggers the next periodic quote refresh.
type refreshTickMsg struct{}

// clockTickMsg updates the footer clock.
type clockTickMsg time.Time

const fetchTimeout = 30 * time.Second

// primeCmd warms up the market data session in the background.
func primeCmd(source QuoteSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		source.Prime(ctx)
		return primedMsg{}
	}
}

// fetchQuotesCmd retrieves quotes for the given symbols.
func fetchQuotesCmd(source QuoteSource, symbols []string) tea.Cmd {
	symbols = append([]string(nil), symbols...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		quotes, err := source.RetrieveQuotes(ctx, symbols)
		return quotesMsg{quotes: quotes, err: err}
	}
}

// searchCmd runs a symbol search for the query.
func searchCmd(source QuoteSource, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		result, err := source.Search(ctx, query)
		return searchMsg{query: query, result: result, err: err}
	}
}

// refreshTickCmd schedules the next periodic refresh.
func refreshTickCmd(frequency time.Duration) tea.Cmd {
	return tea.Tick(frequency, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// clockTickCmd fires on the next wall-clock second boundary, keeping the
// footer clock in step with system time.
func clockTickCmd(now time.Time) tea.Cmd {
	next := now.Truncate(time.Second).Add(time.Second)
	return tea.Tick(time.Until(next), func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
