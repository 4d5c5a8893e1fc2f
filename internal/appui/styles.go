package appui

import "github.com/charmbracelet/lipgloss"

// Quote table colors.
var (
	GainingColor = lipgloss.Color("#00DD00")
	LosingColor  = lipgloss.Color("#DD0000")

	headerColor    = lipgloss.Color("#6CA0DC")
	cursorBgColor  = lipgloss.Color("#303860")
	mutedColor     = lipgloss.Color("#808080")
	titleColor     = lipgloss.Color("#F0C040")
	errorColor     = lipgloss.Color("#e53935")
	selectionColor = lipgloss.Color("#F0C040")
)

// Styles holds all the styled components for the application screens.
type Styles struct {
	// Layout
	Title  lipgloss.Style
	Footer lipgloss.Style
	Clock  lipgloss.Style

	// Quote table
	Header       lipgloss.Style
	SortedHeader lipgloss.Style
	Cell         lipgloss.Style
	Gaining      lipgloss.Style
	Losing       lipgloss.Style
	CursorRow    lipgloss.Style

	// Search screen
	SearchPrompt  lipgloss.Style
	SearchOption  lipgloss.Style
	SearchFocused lipgloss.Style

	// Status
	Error lipgloss.Style
	Muted lipgloss.Style
}

// NewStyles builds the application styles.
func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1),

		Clock: lipgloss.NewStyle().
			Foreground(mutedColor).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true),

		SortedHeader: lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true).
			Underline(true),

		Cell: lipgloss.NewStyle(),

		Gaining: lipgloss.NewStyle().
			Foreground(GainingColor),

		Losing: lipgloss.NewStyle().
			Foreground(LosingColor),

		CursorRow: lipgloss.NewStyle().
			Background(cursorBgColor).
			Bold(true),

		SearchPrompt: lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true),

		SearchOption: lipgloss.NewStyle().
			Padding(0, 1),

		SearchFocused: lipgloss.NewStyle().
			Foreground(selectionColor).
			Bold(true).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(mutedColor),
	}
}
