package appui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// openChooserMsg asks the app to switch to the column chooser screen.
type openChooserMsg struct{}

// closeChooserMsg returns from the column chooser to the watchlist.
type closeChooserMsg struct{}

// columnsChangedMsg carries the new active non-ticker column keys after a
// toggle. Changes apply immediately; closing the chooser never reverts them.
type columnsChangedMsg struct {
	keys []string
}

// chooserPane identifies which of the two column lists has focus.
type chooserPane int

const (
	paneAvailable chooserPane = iota
	paneActive
)

// ChooserModel is the column chooser screen: the available columns on the
// left, the active ones on the right. Toggling moves a column between the
// lists and updates the watchlist right away. The ticker column is pinned
// and never offered.
type ChooserModel struct {
	styles Styles

	available []string
	active    []string

	pane           chooserPane
	availableIndex int
	activeIndex    int
}

// NewChooserModel builds the chooser from the currently displayed column
// keys. The ticker column and unknown keys are dropped.
func NewChooserModel(styles Styles, activeKeys []string) ChooserModel {
	active := make([]string, 0, len(activeKeys))
	for _, key := range activeKeys {
		if key == TickerColumnKey {
			continue
		}
		if _, ok := allColumns[key]; ok {
			active = append(active, key)
		}
	}
	return ChooserModel{
		styles:    styles,
		available: availableColumnKeys(active),
		active:    active,
	}
}

// availableColumnKeys returns the registry-ordered keys that are neither
// active nor the ticker column.
func availableColumnKeys(active []string) []string {
	used := make(map[string]struct{}, len(active))
	for _, key := range active {
		used[key] = struct{}{}
	}
	var keys []string
	for _, key := range columnOrder {
		if key == TickerColumnKey {
			continue
		}
		if _, ok := used[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// ActiveKeys returns the chosen non-ticker column keys in display order.
func (m ChooserModel) ActiveKeys() []string {
	return append([]string(nil), m.active...)
}

// Update handles key messages for the chooser screen.
func (m ChooserModel) Update(msg tea.Msg) (ChooserModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc", "c":
		return m, func() tea.Msg { return closeChooserMsg{} }
	case "tab", "left", "right":
		if m.pane == paneAvailable {
			m.pane = paneActive
		} else {
			m.pane = paneAvailable
		}
	case "up", "k":
		if m.pane == paneAvailable && m.availableIndex > 0 {
			m.availableIndex--
		}
		if m.pane == paneActive && m.activeIndex > 0 {
			m.activeIndex--
		}
	case "down", "j":
		if m.pane == paneAvailable && m.availableIndex < len(m.available)-1 {
			m.availableIndex++
		}
		if m.pane == paneActive && m.activeIndex < len(m.active)-1 {
			m.activeIndex++
		}
	case " ", "enter":
		return m.toggle()
	}
	return m, nil
}

// toggle moves the focused column to the other list and announces the new
// active set. Added columns append to the end; removed ones return to their
// registry position in the available list.
func (m ChooserModel) toggle() (ChooserModel, tea.Cmd) {
	switch m.pane {
	case paneAvailable:
		if m.availableIndex < 0 || m.availableIndex >= len(m.available) {
			return m, nil
		}
		key := m.available[m.availableIndex]
		m.active = append(append([]string(nil), m.active...), key)
		m.available = availableColumnKeys(m.active)
		if m.availableIndex > len(m.available)-1 {
			m.availableIndex = len(m.available) - 1
		}
	case paneActive:
		if m.activeIndex < 0 || m.activeIndex >= len(m.active) {
			return m, nil
		}
		kept := make([]string, 0, len(m.active)-1)
		for i, key := range m.active {
			if i != m.activeIndex {
				kept = append(kept, key)
			}
		}
		m.active = kept
		m.available = availableColumnKeys(m.active)
		if m.activeIndex > len(m.active)-1 {
			m.activeIndex = len(m.active) - 1
		}
	}

	keys := append([]string(nil), m.active...)
	return m, func() tea.Msg { return columnsChangedMsg{keys: keys} }
}

// View renders the two panes side by side. The active pane always shows the
// pinned ticker column first.
func (m ChooserModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.SearchPrompt.Render("Choose columns"))
	sb.WriteString("\n\n")

	left := m.paneView("Available", m.available, m.availableIndex, m.pane == paneAvailable, false)
	right := m.paneView("Active", m.active, m.activeIndex, m.pane == paneActive, true)

	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")
	for len(leftLines) < len(rightLines) {
		leftLines = append(leftLines, strings.Repeat(" ", chooserPaneWidth))
	}
	for len(rightLines) < len(leftLines) {
		rightLines = append(rightLines, "")
	}
	for i := range leftLines {
		sb.WriteString(leftLines[i])
		sb.WriteString("    ")
		sb.WriteString(rightLines[i])
		sb.WriteString("\n")
	}

	return sb.String()
}

const chooserPaneWidth = 16

func (m ChooserModel) paneView(title string, keys []string, index int, focused, pinTicker bool) string {
	var sb strings.Builder

	titleStyle := m.styles.Header
	if focused {
		titleStyle = m.styles.SortedHeader
	}
	sb.WriteString(titleStyle.Render(padCell(title, chooserPaneWidth, JustifyLeft)))
	sb.WriteString("\n")

	if pinTicker {
		label := padCell(allColumns[TickerColumnKey].Name, chooserPaneWidth, JustifyLeft)
		sb.WriteString(m.styles.Muted.Render(label))
		sb.WriteString("\n")
	}

	for i, key := range keys {
		label := padCell(allColumns[key].Name, chooserPaneWidth, JustifyLeft)
		style := m.styles.SearchOption
		if focused && i == index {
			style = m.styles.SearchFocused
		}
		sb.WriteString(style.Render(label))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
