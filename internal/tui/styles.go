package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
	borderPadding = 2
	listWidth     = 32
	sidePanelW    = 36
	chartHeight   = 12
)

// Key bindings.
const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keyRefresh = "r"
)

// Palette.
var (
	ColorLive     = lipgloss.Color("42")
	ColorStale    = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
	ColorSubtle   = lipgloss.Color("241")
	ColorAccent   = lipgloss.Color("63")
	ColorText     = lipgloss.Color("252")
)

// Shared styles.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorLive)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorStale)

	CriticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCritical)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

// ViewState is the dashboard screen currently shown.
type ViewState int

// Dashboard screens.
const (
	ViewStateLoading ViewState = iota
	ViewStateReady
	ViewStateQuitting
)
