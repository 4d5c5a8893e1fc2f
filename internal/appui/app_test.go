package appui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doubloon-app/doubloon/internal/config"
)

func newTestApp(source QuoteSource) Model {
	cfg := config.Default()
	cfg.Watchlist.Quotes = []string{"AAPL"}
	return New(cfg, source, nil)
}

func TestAppStartsOnLoadingScreen(t *testing.T) {
	m := newTestApp(newFakeSource())
	assert.Contains(t, m.View(), "connecting to market data")
}

func TestAppShowsWatchlistOncePrimed(t *testing.T) {
	m := newTestApp(newFakeSource())

	updated, _ := m.Update(primedMsg{})
	m = updated.(Model)

	assert.Equal(t, screenWatchlist, m.screen)
	assert.Contains(t, m.View(), "Ticker")
}

func TestAppSearchSelectionLandsOnWatchlist(t *testing.T) {
	source := newFakeSource()
	m := newTestApp(source)

	updated, _ := m.Update(primedMsg{})
	m = updated.(Model)

	updated, _ = m.Update(openSearchMsg{})
	m = updated.(Model)
	require.Equal(t, screenSearch, m.screen)

	updated, _ = m.Update(symbolSelectedMsg{symbol: "MSFT"})
	m = updated.(Model)

	assert.Equal(t, screenWatchlist, m.screen)
	assert.Contains(t, m.watchlist.Symbols(), "MSFT")
}

func TestAppColumnChooserFlow(t *testing.T) {
	source := newFakeSource()
	m := newTestApp(source)

	updated, _ := m.Update(primedMsg{})
	m = updated.(Model)

	// "c" on the watchlist opens the chooser.
	updated, cmd := m.Update(keyMsg("c"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	require.Equal(t, screenChooser, m.screen)

	// Toggling the first available column applies to the table immediately.
	updated, cmd = m.Update(keyMsg(" "))
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Contains(t, m.watchlist.ColumnKeys(), "change")

	// Escape returns to the watchlist; the change sticks and is synced.
	updated, cmd = m.Update(keyMsg("esc"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, screenWatchlist, m.screen)

	m.SyncConfig()
	assert.Contains(t, m.cfg.Watchlist.Columns, "change")
	assert.NotContains(t, m.cfg.Watchlist.Columns, config.TickerColumnKey)
}

func TestAppQuitKeys(t *testing.T) {
	m := newTestApp(newFakeSource())

	updated, _ := m.Update(primedMsg{})
	m = updated.(Model)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppClockFormats(t *testing.T) {
	m := newTestApp(newFakeSource())
	m.now = time.Date(2024, 1, 3, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "15:04:05", m.clockText())

	m.cfg.TimeFormat = config.TimeFormatTwelveHour
	assert.Equal(t, "03:04:05 PM", m.clockText())
}

func TestSyncConfigCapturesSessionState(t *testing.T) {
	source := newFakeSource()
	m := newTestApp(source)

	updated, _ := m.Update(primedMsg{})
	m = updated.(Model)

	var cmd tea.Cmd
	m.watchlist, cmd = m.watchlist.AddSymbol("MSFT")
	_ = cmd
	m.watchlist, _ = m.watchlist.Update(keyMsg("o"))
	m.watchlist, _ = m.watchlist.Update(keyMsg("right"))
	m.watchlist, _ = m.watchlist.Update(keyMsg(" "))

	m.SyncConfig()

	assert.Equal(t, []string{"AAPL", "MSFT"}, m.cfg.Watchlist.Quotes)
	assert.Equal(t, "last", m.cfg.Watchlist.SortColumn)
	assert.Equal(t, config.SortDescending, m.cfg.Watchlist.SortDirection)
}
