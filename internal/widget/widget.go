// Package widget is the city search component: a query box bound to a
// catalog, a selection controller and a host viewport.
//
// The widget owns all query state and is driven from a single event loop.
// Hosts feed it raw input and key events and give it a Viewport to steer.
// Debouncing is token based: Input returns a token, and the host calls Settle
// with that token once the quiet period has elapsed. Only the most recent
// token settles, so at most one match runs per typing pause.
package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/ruminaider/citysearch/internal/logger"
	"github.com/ruminaider/citysearch/internal/matcher"
	"github.com/ruminaider/citysearch/internal/selection"
)

var (
	// ErrLocateDisabled is returned by Locate and ShowLocation when the
	// widget was built without the locate-me capability.
	ErrLocateDisabled = errors.New("locate is disabled")
	// ErrInvalidPosition is returned by ShowLocation for a non-finite or
	// out-of-range position.
	ErrInvalidPosition = errors.New("invalid position")
)

// Viewport is the map the widget steers.
type Viewport interface {
	Recenter(lat, lon float64, zoom int)
	PlaceMarker(lat, lon float64, label string)
	RemoveMarker()
}

// UserMarkerPlacer is implemented by viewports that draw the user's own
// position differently from a search result. Others get PlaceMarker.
type UserMarkerPlacer interface {
	PlaceUserMarker(lat, lon float64, label string)
}

// Options configures a widget.
type Options struct {
	MinLength      int
	MaxSuggestions int
	HighlightFirst bool
	Wrap           bool
	LocateEnabled  bool
	SelectZoom     int
	LocateZoom     int
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		MinLength:      1,
		MaxSuggestions: matcher.DefaultMaxResults,
		Wrap:           true,
		SelectZoom:     10,
		LocateZoom:     12,
	}
}

// Snapshot is a read-only view of the query state for rendering.
type Snapshot struct {
	Input       string
	Query       string
	State       selection.State
	Matches     []catalog.LocationRecord
	Highlighted int // -1 when nothing is highlighted
	Pending     bool
	CatalogSize int
}

// Widget is the search component. It is not safe for concurrent use.
type Widget struct {
	opts    Options
	vp      Viewport
	log     *logger.Logger
	catalog *catalog.Catalog
	ctrl    *selection.Controller

	input   string
	query   string
	token   uint64
	pending bool
}

// New builds a widget over an empty catalog. A nil viewport or logger is
// replaced with a no-op.
func New(opts Options, vp Viewport, log *logger.Logger) *Widget {
	if vp == nil {
		vp = nopViewport{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = matcher.DefaultMaxResults
	}
	return &Widget{
		opts:    opts,
		vp:      vp,
		log:     log,
		catalog: catalog.Empty(),
		ctrl:    selection.New(selection.Options{HighlightFirst: opts.HighlightFirst, Wrap: opts.Wrap}),
	}
}

// Options returns the widget's options.
func (w *Widget) Options() Options { return w.opts }

// Catalog returns the attached catalog.
func (w *Widget) Catalog() *catalog.Catalog { return w.catalog }

// AttachCatalog installs the loaded catalog. A nil catalog counts as empty.
// Settled input is matched again against the new records.
func (w *Widget) AttachCatalog(c *catalog.Catalog) {
	if c == nil {
		c = catalog.Empty()
	}
	w.catalog = c
	if !w.pending && w.query != "" {
		w.runMatch()
	}
}

// Input records a change of the raw input text and returns the debounce
// token for it. Any pending token is invalidated. Input that is blank after
// trimming resets the state at once and leaves nothing pending.
func (w *Widget) Input(raw string) uint64 {
	w.input = raw
	w.token++
	w.ctrl.Clear()
	if matcher.Normalize(raw) == "" {
		w.query = ""
		w.pending = false
		return w.token
	}
	w.pending = true
	return w.token
}

// Settle runs the matcher for the input that produced token. Stale tokens
// are ignored and reported as false.
func (w *Widget) Settle(token uint64) bool {
	if !w.pending || token != w.token {
		return false
	}
	w.pending = false
	w.runMatch()
	return true
}

// Search sets the input and matches it immediately.
func (w *Widget) Search(raw string) []catalog.LocationRecord {
	w.Settle(w.Input(raw))
	return w.ctrl.Matches()
}

// Pending reports whether input is waiting for its debounce to settle.
func (w *Widget) Pending() bool { return w.pending }

// Token returns the current debounce token.
func (w *Widget) Token() uint64 { return w.token }

func (w *Widget) runMatch() {
	w.query = matcher.Normalize(w.input)
	w.ctrl.QueryChanged(matcher.Match(w.catalog, w.input, w.opts.MinLength, w.opts.MaxSuggestions))
}

// flush settles pending input so key handling sees up-to-date matches.
func (w *Widget) flush() {
	if w.pending {
		w.Settle(w.token)
	}
}

// ArrowDown moves the highlight down.
func (w *Widget) ArrowDown() {
	w.flush()
	w.ctrl.ArrowDown()
}

// ArrowUp moves the highlight up.
func (w *Widget) ArrowUp() {
	w.flush()
	w.ctrl.ArrowUp()
}

// Hover highlights suggestion i, as a pointer moving over the list does.
func (w *Widget) Hover(i int) {
	w.ctrl.SetHighlight(i)
}

// Enter commits the highlighted suggestion. It reports false, and does
// nothing, when no suggestion is highlighted.
func (w *Widget) Enter() (catalog.LocationRecord, bool) {
	w.flush()
	sel, ok := w.ctrl.Enter()
	if !ok {
		return catalog.LocationRecord{}, false
	}
	w.commit(sel.Record)
	return sel.Record, true
}

// Click commits suggestion i regardless of the highlight.
func (w *Widget) Click(i int) (catalog.LocationRecord, bool) {
	sel, ok := w.ctrl.Click(i)
	if !ok {
		return catalog.LocationRecord{}, false
	}
	w.commit(sel.Record)
	return sel.Record, true
}

// Choose commits a record obtained outside the suggestion list.
func (w *Widget) Choose(r catalog.LocationRecord) {
	w.flush()
	w.commit(w.ctrl.Choose(r).Record)
}

// Clear empties the input, drops the suggestions and cancels any pending
// debounce. The map marker is left alone.
func (w *Widget) Clear() {
	w.input = ""
	w.query = ""
	w.token++
	w.pending = false
	w.ctrl.Clear()
}

// commit writes the selection into the input and steers the viewport. A
// record without usable coordinates only updates the input.
func (w *Widget) commit(r catalog.LocationRecord) {
	w.token++
	w.pending = false
	w.input = r.Display()
	w.query = ""

	w.vp.RemoveMarker()
	if !r.HasCoordinates() {
		w.log.Warn("selected location has no coordinates",
			"city", r.City, "state", r.StateCode, "zip", r.ZIP)
		return
	}
	w.vp.PlaceMarker(r.Latitude, r.Longitude, r.MarkerLabel())
	w.vp.Recenter(r.Latitude, r.Longitude, w.opts.SelectZoom)
	w.log.Committed(r.City, r.StateCode, r.ZIP, r.Latitude, r.Longitude)
}

// ShowLocation replaces any marker with a user-location marker at pos and
// recenters on it.
func (w *Widget) ShowLocation(pos geolocate.Position) error {
	if !w.opts.LocateEnabled {
		return ErrLocateDisabled
	}
	if !pos.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}

	label := "You are here"
	if near, km, ok := geolocate.Nearest(w.catalog, pos); ok {
		label = fmt.Sprintf("You are here\nNear %s (%.0f km)", near.Title(), km)
	}

	w.vp.RemoveMarker()
	if p, ok := w.vp.(UserMarkerPlacer); ok {
		p.PlaceUserMarker(pos.Lat, pos.Lon, label)
	} else {
		w.vp.PlaceMarker(pos.Lat, pos.Lon, label)
	}
	w.vp.Recenter(pos.Lat, pos.Lon, w.opts.LocateZoom)
	return nil
}

// Locate asks loc for the current position and shows it. Failures are logged
// and returned; the viewport is not touched.
func (w *Widget) Locate(ctx context.Context, loc geolocate.Locator) error {
	if !w.opts.LocateEnabled {
		return ErrLocateDisabled
	}
	pos, err := loc.Locate(ctx)
	if err != nil {
		w.log.LocateFailed(err)
		return fmt.Errorf("locating: %w", err)
	}
	return w.ShowLocation(pos)
}

// Snapshot returns the current query state.
func (w *Widget) Snapshot() Snapshot {
	hl := -1
	if i, ok := w.ctrl.Highlighted(); ok {
		hl = i
	}
	return Snapshot{
		Input:       w.input,
		Query:       w.query,
		State:       w.ctrl.State(),
		Matches:     w.ctrl.Matches(),
		Highlighted: hl,
		Pending:     w.pending,
		CatalogSize: w.catalog.Len(),
	}
}

type nopViewport struct{}

func (nopViewport) Recenter(float64, float64, int)       {}
func (nopViewport) PlaceMarker(float64, float64, string) {}
func (nopViewport) RemoveMarker()                        {}
