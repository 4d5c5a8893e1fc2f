package appui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/doubloon-app/doubloon/calahan"
)

// symbolSelectedMsg carries the symbol picked on the search screen.
type symbolSelectedMsg struct {
	symbol string
}

// closeSearchMsg asks the app to return to the watchlist.
type closeSearchMsg struct{}

// SearchModel is the symbol search screen: a text input with a result list
// underneath. Every keystroke starts a new search; responses for anything
// but the latest query are discarded.
type SearchModel struct {
	styles Styles
	logger zerolog.Logger
	source QuoteSource

	input       textinput.Model
	latestQuery string
	results     []calahan.YSearchQuote
	highlighted int
	searchErr   string
}

// NewSearchModel builds the search screen.
func NewSearchModel(styles Styles, logger zerolog.Logger, source QuoteSource) SearchModel {
	input := textinput.New()
	input.Placeholder = "Type symbol (e.g., AAPL, MSFT)..."
	input.CharLimit = 50
	input.Width = 40
	input.Focus()

	return SearchModel{
		styles: styles,
		logger: logger,
		source: source,
		input:  input,
	}
}

// Init focuses the input.
func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the search screen.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return closeSearchMsg{} }
		case "enter":
			if m.highlighted >= 0 && m.highlighted < len(m.results) {
				symbol := m.results[m.highlighted].Symbol
				return m, func() tea.Msg { return symbolSelectedMsg{symbol: symbol} }
			}
			return m, nil
		case "up":
			if m.highlighted > 0 {
				m.highlighted--
			}
			return m, nil
		case "down":
			if m.highlighted < len(m.results)-1 {
				m.highlighted++
			}
			return m, nil
		case "pgup":
			m.highlighted = 0
			return m, nil
		case "pgdown":
			if len(m.results) > 0 {
				m.highlighted = len(m.results) - 1
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		query := strings.TrimSpace(m.input.Value())
		if query == m.latestQuery {
			return m, cmd
		}
		m.latestQuery = query
		m.searchErr = ""
		if query == "" {
			m.results = nil
			m.highlighted = 0
			return m, cmd
		}
		return m, tea.Batch(cmd, searchCmd(m.source, query))

	case searchMsg:
		// A slow response for an older query must not clobber the
		// results of the current one.
		if msg.query != m.latestQuery {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("query", msg.query).Msg("symbol search failed")
			m.results = nil
			m.highlighted = 0
			m.searchErr = "search failed"
			return m, nil
		}
		m.results = msg.result.Quotes
		if m.highlighted > len(m.results)-1 {
			m.highlighted = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// optionLabel renders one search result as "SYMBOL — Name (Exchange)".
func optionLabel(quote calahan.YSearchQuote) string {
	name := quote.LongName
	if name == "" {
		name = quote.ShortName
	}
	exchange := quote.ExchDisp
	if exchange == "" {
		exchange = quote.Exchange
	}
	return fmt.Sprintf("%s — %s (%s)", quote.Symbol, name, exchange)
}

// View renders the input and the result list.
func (m SearchModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.SearchPrompt.Render("Add symbol"))
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	if m.searchErr != "" {
		sb.WriteString(m.styles.Error.Render(m.searchErr))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, quote := range m.results {
		style := m.styles.SearchOption
		if i == m.highlighted {
			style = m.styles.SearchFocused
		}
		sb.WriteString(style.Render(optionLabel(quote)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("enter select · esc cancel"))
	return sb.String()
}
