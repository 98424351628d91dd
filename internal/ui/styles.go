package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
)

// Header style for the top bar.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// ErrorBanner style for the error line. Persistent until dismissed.
var ErrorBanner = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("124")).
	Bold(true).
	Padding(0, 1)

// TabActive style for the selected mode tab.
var TabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// TabInactive style for unselected mode tabs.
var TabInactive = lipgloss.NewStyle().
	Foreground(colorSecondary)

// DebugPanel style for the diagnostics overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)

// DebugHeader style for section headers in the overlay.
var DebugHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
