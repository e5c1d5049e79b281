package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// ListWidth is the fixed width of the search column.
const ListWidth = 44

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

var (
	colorBase     = lipgloss.Color(flavor.Base().Hex)
	colorMantle   = lipgloss.Color(flavor.Mantle().Hex)
	colorSurface0 = lipgloss.Color(flavor.Surface0().Hex)
	colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
	colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
)

// Search column styles.
var (
	// TitleStyle is used for the app title above the input.
	TitleStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	// InputStyle frames the search box.
	InputStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			PaddingLeft(1)

	// ClearButtonStyle renders the × shown while the input has text.
	ClearButtonStyle = lipgloss.NewStyle().
				Foreground(colorOverlay0)

	// SuggestionStyle is used for non-highlighted suggestions.
	SuggestionStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// HighlightStyle is used for the highlighted suggestion.
	HighlightStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorBlue).
			Bold(true)

	// ZIPStyle dims the ZIP code after the city name.
	ZIPStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	// DimStyle is used for hints and scroll indicators.
	DimStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0)

	// ErrorStyle is used for transient error notices.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// Map panel styles.
var (
	// MapFrameStyle is the border around the map.
	MapFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1)

	// MapHeaderStyle is used for the coordinates line above the map.
	MapHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// MapDotStyle is used for catalog cities in view.
	MapDotStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)

	// MarkerStyle is used for the search result marker.
	MarkerStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	// UserMarkerStyle is used for the user-location marker.
	UserMarkerStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// PopupStyle renders the marker label below the map.
	PopupStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0).
			Padding(0, 1)
)

// Status bar styles.
var (
	// StatusBarStyle is the base style for the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 1)

	// StatusBarKeyStyle highlights keyboard shortcuts in the status bar.
	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Background(colorSurface0).
				Bold(true)

	// StatusOKStyle marks a loaded catalog.
	StatusOKStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Background(colorSurface0)
)
