package appui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doubloon-app/doubloon/calahan"
)

// QuoteTable renders the sortable watchlist table. It keeps its own sorted
// view of the quotes; the watchlist model feeds it fresh data and cursor
// movements.
type QuoteTable struct {
	styles Styles

	columns []Column
	quotes  []*calahan.YQuote

	cursor     int
	sortKey    string
	descending bool
	// ordering highlights the sort column header while the user is
	// changing the sort order.
	ordering bool
}

// NewQuoteTable builds a table with the given non-ticker column keys. The
// ticker column is always present and always first; unknown keys are
// skipped.
func NewQuoteTable(styles Styles, columnKeys []string, sortKey string, descending bool) *QuoteTable {
	columns := []Column{allColumns[TickerColumnKey]}
	for _, key := range columnKeys {
		if key == TickerColumnKey {
			continue
		}
		if col, ok := allColumns[key]; ok {
			columns = append(columns, col)
		}
	}

	t := &QuoteTable{
		styles:  styles,
		columns: columns,
		sortKey: sortKey,

		descending: descending,
	}
	if _, ok := t.sortColumn(); !ok {
		t.sortKey = TickerColumnKey
	}
	return t
}

// SetColumns replaces the displayed non-ticker columns; the ticker column
// stays first. When the sort column is no longer displayed the table falls
// back to sorting by ticker.
func (t *QuoteTable) SetColumns(columnKeys []string) {
	columns := []Column{allColumns[TickerColumnKey]}
	for _, key := range columnKeys {
		if key == TickerColumnKey {
			continue
		}
		if col, ok := allColumns[key]; ok {
			columns = append(columns, col)
		}
	}
	t.columns = columns

	if _, ok := t.sortColumn(); !ok {
		cursorSymbol := t.CursorSymbol()
		t.sortKey = TickerColumnKey
		t.sort()
		t.followCursor(cursorSymbol)
	}
}

// ColumnKeys returns the displayed column keys, ticker included.
func (t *QuoteTable) ColumnKeys() []string {
	keys := make([]string, len(t.columns))
	for i, col := range t.columns {
		keys[i] = col.Key
	}
	return keys
}

// SortKey returns the key of the current sort column.
func (t *QuoteTable) SortKey() string { return t.sortKey }

// Descending reports whether the sort order is descending.
func (t *QuoteTable) Descending() bool { return t.descending }

// SetOrdering toggles the sort-ordering highlight.
func (t *QuoteTable) SetOrdering(on bool) { t.ordering = on }

// Ordering reports whether the table is in sort-ordering mode.
func (t *QuoteTable) Ordering() bool { return t.ordering }

// SetQuotes replaces the table contents and re-sorts. The cursor follows
// the symbol it was on; if that symbol is gone it stays at the same index.
func (t *QuoteTable) SetQuotes(quotes []calahan.YQuote) {
	cursorSymbol := t.CursorSymbol()

	t.quotes = make([]*calahan.YQuote, len(quotes))
	for i := range quotes {
		t.quotes[i] = &quotes[i]
	}
	t.sort()
	t.followCursor(cursorSymbol)
}

// RowCount returns the number of rows in the table.
func (t *QuoteTable) RowCount() int { return len(t.quotes) }

// CursorSymbol returns the symbol under the cursor, or "" for an empty
// table.
func (t *QuoteTable) CursorSymbol() string {
	if t.cursor < 0 || t.cursor >= len(t.quotes) {
		return ""
	}
	return t.quotes[t.cursor].Symbol
}

// CursorUp moves the cursor one row up.
func (t *QuoteTable) CursorUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// CursorDown moves the cursor one row down.
func (t *QuoteTable) CursorDown() {
	if t.cursor < len(t.quotes)-1 {
		t.cursor++
	}
}

// MoveSortColumn shifts the sort column left or right by delta, clamped to
// the displayed columns, and re-sorts.
func (t *QuoteTable) MoveSortColumn(delta int) {
	index := 0
	for i, col := range t.columns {
		if col.Key == t.sortKey {
			index = i
			break
		}
	}
	index += delta
	if index < 0 {
		index = 0
	}
	if index > len(t.columns)-1 {
		index = len(t.columns) - 1
	}
	if t.columns[index].Key == t.sortKey {
		return
	}

	cursorSymbol := t.CursorSymbol()
	t.sortKey = t.columns[index].Key
	t.sort()
	t.followCursor(cursorSymbol)
}

// ToggleSortDirection flips between ascending and descending.
func (t *QuoteTable) ToggleSortDirection() {
	cursorSymbol := t.CursorSymbol()
	t.descending = !t.descending
	t.sort()
	t.followCursor(cursorSymbol)
}

func (t *QuoteTable) sortColumn() (Column, bool) {
	for _, col := range t.columns {
		if col.Key == t.sortKey {
			return col, true
		}
	}
	return Column{}, false
}

func (t *QuoteTable) sort() {
	col, ok := t.sortColumn()
	if !ok {
		col = allColumns[TickerColumnKey]
	}
	sortQuotes(t.quotes, col, t.descending)
}

func (t *QuoteTable) followCursor(symbol string) {
	if symbol != "" {
		for i, q := range t.quotes {
			if q.Symbol == symbol {
				t.cursor = i
				return
			}
		}
	}
	if t.cursor > len(t.quotes)-1 {
		t.cursor = len(t.quotes) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// View renders the table: one header line and one line per quote.
func (t *QuoteTable) View() string {
	var sb strings.Builder

	for i, col := range t.columns {
		label := col.Name
		if col.Key == t.sortKey {
			if t.descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		style := t.styles.Header
		if col.Key == t.sortKey && t.ordering {
			style = t.styles.SortedHeader
		}
		sb.WriteString(style.Render(padCell(label, col.Width, col.Justify)))
		if i < len(t.columns)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("\n")

	for row, q := range t.quotes {
		for i, col := range t.columns {
			cell := padCell(col.Format(q), col.Width, col.Justify)

			style := t.styles.Cell
			if col.Sign != nil {
				switch col.Sign(q) {
				case 1:
					style = t.styles.Gaining
				case -1:
					style = t.styles.Losing
				}
			}
			if row == t.cursor {
				style = style.Inherit(t.styles.CursorRow)
			}

			sb.WriteString(style.Render(cell))
			if i < len(t.columns)-1 {
				separator := " "
				if row == t.cursor {
					separator = t.styles.CursorRow.Render(" ")
				}
				sb.WriteString(separator)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// padCell fits text into width, truncating with an ellipsis when too long.
func padCell(text string, width int, justify Justify) string {
	length := lipgloss.Width(text)
	if length > width {
		runes := []rune(text)
		if width > 1 {
			return string(runes[:width-1]) + "…"
		}
		return string(runes[:width])
	}
	padding := strings.Repeat(" ", width-length)
	if justify == JustifyLeft {
		return text + padding
	}
	return padding + text
}
