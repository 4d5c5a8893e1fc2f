// Package appui is the Doubloon terminal user interface: a sortable quote
// watchlist with a symbol search screen, refreshed on a fixed cadence.
package appui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/doubloon-app/doubloon/internal/config"
)

// screen is the active top-level screen.
type screen int

const (
	screenLoading screen = iota
	screenWatchlist
	screenSearch
	screenChooser
)

// Model is the root bubbletea model. It owns the screen stack, the footer
// clock, and hands messages down to the active screen.
type Model struct {
	styles Styles
	logger zerolog.Logger

	cfg    *config.Config
	source QuoteSource

	screen    screen
	spinner   spinner.Model
	watchlist WatchlistModel
	search    SearchModel
	chooser   ChooserModel

	now           time.Time
	width, height int
}

// New builds the application model from the loaded configuration.
func New(cfg *config.Config, source QuoteSource, recorder Recorder) Model {
	styles := NewStyles()
	logger := log.With().Str("component", "appui").Logger()

	watchlist := NewWatchlistModel(
		styles,
		logger,
		source,
		recorder,
		cfg.Watchlist.Quotes,
		cfg.Watchlist.Columns,
		cfg.Watchlist.SortColumn,
		cfg.Watchlist.SortDirection == config.SortDescending,
		time.Duration(cfg.Watchlist.QueryFrequency)*time.Second,
	)

	loading := spinner.New()
	loading.Spinner = spinner.Dot
	loading.Style = styles.Muted

	return Model{
		styles:    styles,
		logger:    logger,
		cfg:       cfg,
		source:    source,
		screen:    screenLoading,
		spinner:   loading,
		watchlist: watchlist,
		now:       time.Now(),
	}
}

// Init primes the market data session and starts the footer clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(primeCmd(m.source), clockTickCmd(m.now), m.spinner.Tick)
}

// Update routes messages to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		var cmd tea.Cmd
		m.watchlist, cmd = m.watchlist.Update(msg)
		return m, cmd

	case clockTickMsg:
		m.now = time.Time(msg)
		return m, clockTickCmd(m.now)

	case spinner.TickMsg:
		if m.screen != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case primedMsg:
		m.screen = screenWatchlist
		return m, m.watchlist.Init()

	case openSearchMsg:
		m.screen = screenSearch
		m.search = NewSearchModel(m.styles, m.logger, m.source)
		return m, m.search.Init()

	case closeSearchMsg:
		m.screen = screenWatchlist
		return m, nil

	case openChooserMsg:
		m.screen = screenChooser
		m.chooser = NewChooserModel(m.styles, m.watchlist.ColumnKeys())
		return m, nil

	case closeChooserMsg:
		m.screen = screenWatchlist
		return m, nil

	case columnsChangedMsg:
		m.watchlist = m.watchlist.SetColumns(msg.keys)
		return m, nil

	case symbolSelectedMsg:
		m.screen = screenWatchlist
		var cmd tea.Cmd
		m.watchlist, cmd = m.watchlist.AddSymbol(msg.symbol)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenWatchlist:
			if msg.String() == "q" {
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.watchlist, cmd = m.watchlist.Update(msg)
			return m, cmd
		case screenSearch:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		case screenChooser:
			var cmd tea.Cmd
			m.chooser, cmd = m.chooser.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Everything else (refresh ticks, quote and search results) goes to
	// both screens that care; the watchlist keeps refreshing while the
	// search screen is open.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.watchlist, cmd = m.watchlist.Update(msg)
	cmds = append(cmds, cmd)
	if m.screen == screenSearch {
		m.search, cmd = m.search.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the active screen with the shared title bar and footer.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(m.cfg.Title))
	sb.WriteString("\n\n")

	switch m.screen {
	case screenLoading:
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" connecting to market data..."))
	case screenWatchlist:
		sb.WriteString(m.watchlist.View())
	case screenSearch:
		sb.WriteString(m.search.View())
	case screenChooser:
		sb.WriteString(m.chooser.View())
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.footerView())
	return sb.String()
}

func (m Model) footerView() string {
	var hints string
	switch m.screen {
	case screenWatchlist:
		hints = "a add · d remove · c columns · o sort · r refresh · q quit"
	case screenSearch:
		hints = "enter select · esc cancel"
	case screenChooser:
		hints = "tab pane · space toggle · esc done"
	}

	clock := m.styles.Clock.Render(m.clockText())
	if hints == "" {
		return m.styles.Footer.Render(clock)
	}
	return m.styles.Footer.Render(hints + "  " + clock)
}

// clockText formats the footer clock per the configured time format.
func (m Model) clockText() string {
	if m.cfg.TimeFormat == config.TimeFormatTwelveHour {
		return m.now.Format("03:04:05 PM")
	}
	return m.now.Format("15:04:05")
}

// SyncConfig writes the UI state the user can change at runtime (watched
// symbols, displayed columns and sort order) back into the configuration so
// it survives exit.
func (m Model) SyncConfig() {
	m.cfg.Watchlist.Quotes = m.watchlist.Symbols()
	columns := make([]string, 0, len(m.watchlist.ColumnKeys()))
	for _, key := range m.watchlist.ColumnKeys() {
		if key != config.TickerColumnKey {
			columns = append(columns, key)
		}
	}
	m.cfg.Watchlist.Columns = columns
	m.cfg.Watchlist.SortColumn = m.watchlist.SortKey()
	if m.watchlist.SortDescending() {
		m.cfg.Watchlist.SortDirection = config.SortDescending
	} else {
		m.cfg.Watchlist.SortDirection = config.SortAscending
	}
}
