package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/ruminaider/citysearch/internal/widget"
)

// Suggestions renders the match list with scrolling, tracking the widget's
// highlight.
type Suggestions struct {
	height int // visible rows, including scroll indicators
	width  int
	offset int // index of the first visible match
}

// NewSuggestions returns a list with a sensible default size.
func NewSuggestions() Suggestions {
	return Suggestions{height: 12, width: ListWidth}
}

// SetSize sets the available rows and columns.
func (s *Suggestions) SetSize(w, h int) {
	s.width = w
	s.height = max(h, 3)
}

// Sync adjusts the scroll offset so the highlighted row stays visible. It is
// called after every state change.
func (s *Suggestions) Sync(snap widget.Snapshot) {
	total := len(snap.Matches)
	effective := s.height
	if total > s.height {
		effective -= 2 // room for both scroll indicators
	}
	effective = max(effective, 1)

	if snap.Highlighted < 0 {
		if s.offset > max(total-effective, 0) {
			s.offset = 0
		}
		return
	}
	if snap.Highlighted < s.offset {
		s.offset = snap.Highlighted
	}
	if snap.Highlighted >= s.offset+effective {
		s.offset = snap.Highlighted - effective + 1
	}
	s.offset = min(s.offset, max(total-effective, 0))
}

// Reset scrolls back to the top.
func (s *Suggestions) Reset() { s.offset = 0 }

// window returns the visible range and whether indicators are shown.
func (s Suggestions) window(total int) (start, end int, above, below bool) {
	visible := s.height
	above = s.offset > 0
	below = s.offset+s.height < total
	if above {
		visible--
	}
	if below {
		visible--
	}
	visible = max(visible, 1)
	end = min(s.offset+visible, total)
	return s.offset, end, above, end < total
}

// IndexAt maps a row, relative to the top of the list, to a match index.
func (s Suggestions) IndexAt(row, total int) (int, bool) {
	start, end, above, _ := s.window(total)
	if above {
		row--
	}
	i := start + row
	if row < 0 || i >= end {
		return 0, false
	}
	return i, true
}

// View renders the list for snap.
func (s Suggestions) View(snap widget.Snapshot) string {
	total := len(snap.Matches)
	if total == 0 {
		switch {
		case snap.Pending:
			return DimStyle.Render("  …")
		case snap.Query != "":
			return DimStyle.Render("  No matches")
		case snap.CatalogSize == 0:
			return DimStyle.Render("  Loading locations…")
		default:
			return ""
		}
	}

	start, end, above, below := s.window(total)
	var b strings.Builder
	if above {
		b.WriteString(DimStyle.Render("  ↑ more") + "\n")
	}
	for i := start; i < end; i++ {
		r := snap.Matches[i]
		text := ansi.Truncate(r.Title()+" "+r.ZIP, s.width-3, "…")
		if i == snap.Highlighted {
			b.WriteString(HighlightStyle.Render("> "+padRight(text, s.width-3)) + "\n")
			continue
		}
		city := SuggestionStyle.Bold(true).Render(r.City)
		rest := SuggestionStyle.Render(", "+r.StateCode) + " " + ZIPStyle.Render(r.ZIP)
		line := city + rest
		if ansi.StringWidth(line) > s.width-3 {
			line = SuggestionStyle.Render(text)
		}
		b.WriteString("  " + line + "\n")
	}
	if below {
		b.WriteString(DimStyle.Render("  ↓ more") + "\n")
	}
	return lipgloss.NewStyle().Width(s.width).Render(strings.TrimRight(b.String(), "\n"))
}

func padRight(s string, w int) string {
	if gap := w - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
