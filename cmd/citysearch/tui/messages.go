package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/ruminaider/citysearch/internal/logger"
)

// CatalogLoadedMsg carries the result of the one-shot catalog load. On
// failure Catalog is empty and Err says why.
type CatalogLoadedMsg struct {
	Catalog *catalog.Catalog
	Source  string
	Err     error
}

// debounceMsg fires when a typing pause has elapsed.
type debounceMsg struct{ token uint64 }

// LocateResultMsg carries the outcome of a locate-me request.
type LocateResultMsg struct {
	Pos geolocate.Position
	Err error
}

// locateTimeout bounds a single locate-me request.
const locateTimeout = 10 * time.Second

// LoadCatalog returns a tea.Cmd that loads src once. Failures are logged and
// reported with an empty catalog.
func LoadCatalog(src catalog.Source, log *logger.Logger) tea.Cmd {
	return func() tea.Msg {
		c, err := catalog.Load(context.Background(), src)
		if err != nil {
			log.CatalogLoadFailed(src.String(), err)
			return CatalogLoadedMsg{Catalog: catalog.Empty(), Source: src.String(), Err: err}
		}
		log.CatalogLoaded(src.String(), c.Len())
		return CatalogLoadedMsg{Catalog: c, Source: src.String()}
	}
}

// settleAfter schedules the debounce for token.
func settleAfter(d time.Duration, token uint64) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return debounceMsg{token: token} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}

// locate returns a tea.Cmd that asks loc for the current position.
func locate(loc geolocate.Locator) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), locateTimeout)
		defer cancel()
		pos, err := loc.Locate(ctx)
		return LocateResultMsg{Pos: pos, Err: err}
	}
}
