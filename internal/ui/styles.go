package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Amber
)

// SelectedItem style for the currently highlighted row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// NormalItem style for unselected rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// MetaItem style for secondary columns (year, platforms).
var MetaItem = lipgloss.NewStyle().
	Foreground(colorSecondary)

// RatingStyle colors numeric ratings; N/A uses MetaItem.
var RatingStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// Card style for grid cells.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// CardSelected style for the highlighted grid cell.
var CardSelected = Card.
	BorderForeground(colorHighlight).
	Bold(true)

// Header style for the top bar.
var Header = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// HeaderTitle style for the app name in the header.
var HeaderTitle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// CategoryPill style for the active category in the header.
var CategoryPill = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for empty-state and hint text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// FilterBar style for the search and title input bars.
var FilterBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// FilterBarPrompt style for input prompts.
var FilterBarPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// FilterBarCount style for counters next to inputs.
var FilterBarCount = lipgloss.NewStyle().
	Foreground(colorSecondary)

// PanelStyle frames the facet panel.
var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, true, false, false).
	BorderForeground(colorMuted).
	Padding(0, 1)

// PanelHeader style for facet names in the panel.
var PanelHeader = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// PanelChecked style for selected facet values.
var PanelChecked = lipgloss.NewStyle().
	Foreground(colorSuccess)

// OverlayStyle frames the quick search overlay.
var OverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// WarnStyle for recoverable problems such as a failed page.
var WarnStyle = lipgloss.NewStyle().
	Foreground(colorWarn)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)
