package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar renders the bottom row with catalog state, a transient notice
// and keyboard shortcuts.
type StatusBar struct {
	records int
	loaded  bool
	failed  bool
	notice  string
	keys    []key.Binding
	width   int
}

// NewStatusBar creates a status bar showing the given bindings.
func NewStatusBar(keys []key.Binding) StatusBar {
	return StatusBar{keys: keys}
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetCatalog records the outcome of the catalog load.
func (s *StatusBar) SetCatalog(records int, err error) {
	s.loaded = true
	s.records = records
	s.failed = err != nil
}

// SetNotice shows a short message until the next one. Empty clears it.
func (s *StatusBar) SetNotice(msg string) {
	s.notice = msg
}

// Notice returns the current notice.
func (s StatusBar) Notice() string { return s.notice }

// View renders the status bar.
func (s StatusBar) View() string {
	var left string
	switch {
	case !s.loaded:
		left = "loading locations…"
	case s.failed:
		left = ErrorStyle.Background(colorSurface0).Render("locations unavailable")
	default:
		left = StatusOKStyle.Render(fmt.Sprintf("%d locations", s.records))
	}
	if s.notice != "" {
		left += " · " + s.notice
	}

	var shortcuts []string
	for _, k := range s.keys {
		if !k.Enabled() {
			continue
		}
		h := k.Help()
		shortcuts = append(shortcuts, StatusBarKeyStyle.Render(h.Key)+": "+h.Desc)
	}
	right := strings.Join(shortcuts, " · ")

	leftWidth := ansi.StringWidth(left)
	rightWidth := ansi.StringWidth(right)
	availableWidth := s.width - 2 // account for StatusBarStyle padding
	gap := availableWidth - leftWidth - rightWidth
	if gap < 1 {
		gap = 1
	}

	content := left + strings.Repeat(" ", gap) + right
	if s.width > 0 {
		content = ansi.Truncate(content, availableWidth, "…")
		return StatusBarStyle.Width(s.width).Render(content)
	}
	return StatusBarStyle.Render(content)
}
