package appui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/doubloon-app/doubloon/calahan"
)

// openSearchMsg asks the app to switch to the search screen.
type openSearchMsg struct{}

// WatchlistModel is the watchlist screen: the quote table plus its periodic
// refresh loop.
type WatchlistModel struct {
	styles   Styles
	logger   zerolog.Logger
	source   QuoteSource
	recorder Recorder

	table     *QuoteTable
	symbols   []string
	frequency time.Duration

	width, height int
	lastError     string
	lastRefresh   time.Time
}

// NewWatchlistModel builds the watchlist screen.
func NewWatchlistModel(
	styles Styles,
	logger zerolog.Logger,
	source QuoteSource,
	recorder Recorder,
	symbols []string,
	columnKeys []string,
	sortKey string,
	descending bool,
	frequency time.Duration,
) WatchlistModel {
	return WatchlistModel{
		styles:    styles,
		logger:    logger,
		source:    source,
		recorder:  recorder,
		table:     NewQuoteTable(styles, columnKeys, sortKey, descending),
		symbols:   append([]string(nil), symbols...),
		frequency: frequency,
	}
}

// Init starts the refresh loop with an immediate fetch.
func (m WatchlistModel) Init() tea.Cmd {
	return m.refreshCmd()
}

// Symbols returns the watched symbols in watch order.
func (m WatchlistModel) Symbols() []string {
	return append([]string(nil), m.symbols...)
}

// SortKey returns the current sort column key.
func (m WatchlistModel) SortKey() string { return m.table.SortKey() }

// ColumnKeys returns the displayed column keys, ticker included.
func (m WatchlistModel) ColumnKeys() []string { return m.table.ColumnKeys() }

// SetColumns replaces the displayed non-ticker columns.
func (m WatchlistModel) SetColumns(keys []string) WatchlistModel {
	m.table.SetColumns(keys)
	return m
}

// SortDescending reports whether the current sort order is descending.
func (m WatchlistModel) SortDescending() bool { return m.table.Descending() }

// AddSymbol adds a symbol to the watchlist and refreshes. Duplicates are
// ignored.
func (m WatchlistModel) AddSymbol(symbol string) (WatchlistModel, tea.Cmd) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return m, nil
	}
	for _, existing := range m.symbols {
		if existing == symbol {
			return m, nil
		}
	}
	m.symbols = append(m.symbols, symbol)
	return m, m.refreshCmd()
}

// Update handles messages for the watchlist screen.
func (m WatchlistModel) Update(msg tea.Msg) (WatchlistModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshTickMsg:
		return m, m.refreshCmd()

	case quotesMsg:
		if msg.err != nil {
			// Keep showing the previous quotes; surface the failure in
			// the status line.
			m.logger.Error().Err(msg.err).Msg("quote refresh failed")
			m.lastError = msg.err.Error()
			return m, refreshTickCmd(m.frequency)
		}
		m.lastError = ""
		m.lastRefresh = time.Now()
		m.table.SetQuotes(msg.quotes)
		return m, tea.Batch(refreshTickCmd(m.frequency), m.recordCmd(msg.quotes))
	}

	return m, nil
}

func (m WatchlistModel) handleKey(msg tea.KeyMsg) (WatchlistModel, tea.Cmd) {
	if m.table.Ordering() {
		switch msg.String() {
		case "left":
			m.table.MoveSortColumn(-1)
		case "right":
			m.table.MoveSortColumn(1)
		case " ", "enter":
			m.table.ToggleSortDirection()
		case "esc", "o":
			m.table.SetOrdering(false)
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.table.CursorUp()
	case "down", "j":
		m.table.CursorDown()
	case "o":
		m.table.SetOrdering(true)
	case "r":
		return m, m.refreshCmd()
	case "insert", "a", "/":
		return m, func() tea.Msg { return openSearchMsg{} }
	case "c":
		return m, func() tea.Msg { return openChooserMsg{} }
	case "delete", "d":
		return m.removeCursorSymbol()
	}
	return m, nil
}

func (m WatchlistModel) removeCursorSymbol() (WatchlistModel, tea.Cmd) {
	symbol := m.table.CursorSymbol()
	if symbol == "" {
		return m, nil
	}
	kept := make([]string, 0, len(m.symbols))
	for _, s := range m.symbols {
		if s != symbol {
			kept = append(kept, s)
		}
	}
	m.symbols = kept
	return m, m.refreshCmd()
}

func (m WatchlistModel) refreshCmd() tea.Cmd {
	if len(m.symbols) == 0 {
		m.table.SetQuotes(nil)
		return nil
	}
	return fetchQuotesCmd(m.source, m.symbols)
}

// recordCmd journals the refreshed quotes off the UI loop. Journal failures
// are logged and never disturb the display.
func (m WatchlistModel) recordCmd(quotes []calahan.YQuote) tea.Cmd {
	if m.recorder == nil || len(quotes) == 0 {
		return nil
	}
	recorder, logger := m.recorder, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := recorder.Record(ctx, quotes); err != nil {
			logger.Warn().Err(err).Msg("recording quote snapshots failed")
		}
		return nil
	}
}

// View renders the quote table and a status line.
func (m WatchlistModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.table.View())

	switch {
	case m.lastError != "":
		sb.WriteString(m.styles.Error.Render("refresh failed: " + m.lastError))
	case m.table.Ordering():
		sb.WriteString(m.styles.Muted.Render("ordering: ←/→ column · space direction · esc done"))
	case m.lastRefresh.IsZero() && len(m.symbols) > 0:
		sb.WriteString(m.styles.Muted.Render("loading quotes..."))
	}

	return sb.String()
}
