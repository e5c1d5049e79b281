package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/geolocate"
	"github.com/ruminaider/citysearch/internal/logger"
	"github.com/ruminaider/citysearch/internal/selection"
	"github.com/ruminaider/citysearch/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRecords = []catalog.LocationRecord{
	{StateCode: "TX", StateName: "Texas", City: "Austin", ZIP: "73301", Latitude: 30.27, Longitude: -97.74, Timezone: "America/Chicago"},
	{StateCode: "TX", StateName: "Texas", City: "Dallas", ZIP: "75201", Latitude: 32.78, Longitude: -96.80, Timezone: "America/Chicago"},
	{StateCode: "NY", StateName: "New York", City: "New York", ZIP: "10001", Latitude: 40.71, Longitude: -74.01, Timezone: "America/New_York"},
}

// testModel builds a model with the catalog already loaded.
func testModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Widget == (widget.Options{}) {
		opts.Widget = widget.DefaultOptions()
	}
	m := NewModel(opts)
	updated, _ := m.Update(CatalogLoadedMsg{Catalog: catalog.New(testRecords)})
	return updated.(Model)
}

func sendKey(m Model, k tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model), cmd
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

// settle delivers the debounce tick for the latest input.
func settle(m Model) Model {
	updated, _ := m.Update(debounceMsg{token: m.w.Token()})
	return updated.(Model)
}

func TestTypeSettleAndSelect(t *testing.T) {
	m := testModel(t, Options{})

	m = typeText(m, "aus")
	assert.True(t, m.w.Snapshot().Pending)
	assert.Empty(t, m.w.Snapshot().Matches)

	m = settle(m)
	snap := m.w.Snapshot()
	require.Len(t, snap.Matches, 1)
	assert.Equal(t, "Austin", snap.Matches[0].City)
	assert.Contains(t, m.View(), "Austin")

	m, _ = sendKey(m, tea.KeyDown)
	m, _ = sendKey(m, tea.KeyEnter)

	r, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Austin", r.City)
	assert.Equal(t, "Austin, TX 73301", m.input.Value())
	assert.Equal(t, selection.Idle, m.w.Snapshot().State)

	lat, lon, zoom := m.mapPanel.Center()
	assert.InDelta(t, 30.27, lat, 1e-9)
	assert.InDelta(t, -97.74, lon, 1e-9)
	assert.Equal(t, 10, zoom)

	mk, ok := m.mapPanel.Marker()
	require.True(t, ok)
	assert.False(t, mk.User)
	assert.Contains(t, mk.Label, "Timezone: America/Chicago")
}

func TestEnterWithoutHighlightDoesNothing(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "aus"))
	m, _ = sendKey(m, tea.KeyEnter)

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Equal(t, selection.Listing, m.w.Snapshot().State)
}

func TestHighlightFirstOption(t *testing.T) {
	opts := widget.DefaultOptions()
	opts.HighlightFirst = true
	m := testModel(t, Options{Widget: opts})

	// Enter before the debounce fires flushes the pending query.
	m = typeText(m, "dal")
	m, _ = sendKey(m, tea.KeyEnter)

	r, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Dallas", r.City)
}

func TestStaleDebounceIsIgnored(t *testing.T) {
	m := testModel(t, Options{})
	m = typeText(m, "a")
	stale := m.w.Token()
	m = typeText(m, "u")

	updated, _ := m.Update(debounceMsg{token: stale})
	m = updated.(Model)
	assert.True(t, m.w.Snapshot().Pending)

	m = settle(m)
	assert.False(t, m.w.Snapshot().Pending)
	assert.Equal(t, "au", m.w.Snapshot().Query)
}

func TestTypingReturnsDebounceCmd(t *testing.T) {
	m := testModel(t, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.NotNil(t, cmd)
}

func TestClearAndQuit(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "tx"))
	m, _ = sendKey(m, tea.KeyDown)

	m, cmd := sendKey(m, tea.KeyEscape)
	assert.Nil(t, cmd)
	snap := m.w.Snapshot()
	assert.Equal(t, selection.Idle, snap.State)
	assert.Equal(t, -1, snap.Highlighted)
	assert.Empty(t, m.input.Value())

	m, cmd = sendKey(m, tea.KeyEscape)
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestCtrlUClearsPending(t *testing.T) {
	m := testModel(t, Options{})
	m = typeText(m, "aus")
	tok := m.w.Token()

	m, _ = sendKey(m, tea.KeyCtrlU)
	updated, _ := m.Update(debounceMsg{token: tok})
	m = updated.(Model)
	assert.Equal(t, selection.Idle, m.w.Snapshot().State)
	assert.False(t, m.w.Snapshot().Pending)
}

func TestNoMatches(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "999999"))
	assert.Equal(t, selection.Idle, m.w.Snapshot().State)
	assert.Contains(t, m.View(), "No matches")
}

func TestCatalogLoadFailure(t *testing.T) {
	m := NewModel(Options{Widget: widget.DefaultOptions()})
	updated, _ := m.Update(CatalogLoadedMsg{Catalog: catalog.Empty(), Err: errors.New("boom")})
	m = updated.(Model)

	assert.NotPanics(t, func() {
		m = settle(typeText(m, "new york"))
	})
	assert.Empty(t, m.w.Snapshot().Matches)
	assert.Contains(t, m.View(), "locations unavailable")
}

func TestLoadCatalogCmd(t *testing.T) {
	msg := LoadCatalog(catalog.BytesSource{Name: "bad", Data: []byte("nope")}, logger.Nop())()
	loaded, ok := msg.(CatalogLoadedMsg)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
	assert.Equal(t, 0, loaded.Catalog.Len())
	assert.Equal(t, "bad", loaded.Source)

	msg = LoadCatalog(catalog.EmbeddedSource{}, logger.Nop())()
	loaded = msg.(CatalogLoadedMsg)
	assert.NoError(t, loaded.Err)
	assert.Greater(t, loaded.Catalog.Len(), 0)
}

func TestMouseClickSelects(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "tx"))
	require.Len(t, m.w.Snapshot().Matches, 2)

	updated, _ := m.Update(tea.MouseMsg{X: 4, Y: listTop + 1, Action: tea.MouseActionMotion})
	m = updated.(Model)
	assert.Equal(t, 1, m.w.Snapshot().Highlighted)

	updated, _ = m.Update(tea.MouseMsg{X: 4, Y: listTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = updated.(Model)
	r, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Dallas", r.City)
}

func TestMouseHoverWithoutButton(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "tx"))
	require.Len(t, m.w.Snapshot().Matches, 2)

	for _, row := range []int{1, 0} {
		updated, _ := m.Update(tea.MouseMsg{X: 10, Y: listTop + row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
		m = updated.(Model)
		assert.Equal(t, row, m.w.Snapshot().Highlighted)
	}
	_, ok := m.Selected()
	assert.False(t, ok, "hover must not commit")
}

func TestMouseOutsideListIgnored(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "tx"))

	updated, _ := m.Update(tea.MouseMsg{X: ListWidth + 5, Y: listTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = updated.(Model)
	updated, _ = m.Update(tea.MouseMsg{X: 4, Y: listTop + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = updated.(Model)

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Equal(t, selection.Listing, m.w.Snapshot().State)
}

func TestMouseClearButton(t *testing.T) {
	m := testModel(t, Options{})
	m = settle(typeText(m, "tx"))

	updated, _ := m.Update(tea.MouseMsg{X: ListWidth - 2, Y: inputRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = updated.(Model)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, selection.Idle, m.w.Snapshot().State)
}

func TestLocate(t *testing.T) {
	opts := widget.DefaultOptions()
	opts.LocateEnabled = true

	t.Run("success", func(t *testing.T) {
		m := testModel(t, Options{Widget: opts, Locator: geolocate.Static{Lat: 30.3, Lon: -97.7}})
		m, cmd := sendKey(m, tea.KeyCtrlL)
		require.NotNil(t, cmd)
		assert.Contains(t, m.status.Notice(), "locating")

		updated, _ := m.Update(cmd())
		m = updated.(Model)
		mk, ok := m.mapPanel.Marker()
		require.True(t, ok)
		assert.True(t, mk.User)
		assert.Contains(t, mk.Label, "Near Austin, TX")
		_, _, zoom := m.mapPanel.Center()
		assert.Equal(t, 12, zoom)
	})

	t.Run("denied", func(t *testing.T) {
		m := testModel(t, Options{Widget: opts, Locator: geolocate.Denied{}})
		updated, _ := m.Update(LocateResultMsg{Err: geolocate.ErrDenied})
		m = updated.(Model)
		assert.Contains(t, m.status.Notice(), "unable to retrieve your location")
		_, ok := m.mapPanel.Marker()
		assert.False(t, ok)
	})

	t.Run("no locator disables the key", func(t *testing.T) {
		m := testModel(t, Options{Widget: opts})
		m, _ = sendKey(m, tea.KeyCtrlL)
		assert.Empty(t, m.status.Notice())
		assert.NotContains(t, m.status.View(), "my location")
	})
}

func TestWindowResize(t *testing.T) {
	m := testModel(t, Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = updated.(Model)
	view := m.View()
	assert.Contains(t, view, "City search")
	assert.Contains(t, view, "3 locations")
}

func TestSuggestionsScroll(t *testing.T) {
	recs := make([]catalog.LocationRecord, 25)
	for i := range recs {
		recs[i] = catalog.LocationRecord{City: fmt.Sprintf("Town%02d", i), StateCode: "TX", ZIP: "75000"}
	}
	s := NewSuggestions()
	s.SetSize(ListWidth, 6)

	snap := widget.Snapshot{Matches: recs, Highlighted: 10}
	s.Sync(snap)
	view := s.View(snap)
	assert.Contains(t, view, "Town10")
	assert.Contains(t, view, "↑ more")
	assert.Contains(t, view, "↓ more")
	assert.NotContains(t, view, "Town00")

	i, ok := s.IndexAt(1, len(recs))
	require.True(t, ok)
	assert.Equal(t, s.offset, i)

	_, ok = s.IndexAt(0, len(recs))
	assert.False(t, ok, "row 0 is the indicator")

	snap.Highlighted = 24
	s.Sync(snap)
	assert.Contains(t, s.View(snap), "Town24")
	assert.NotContains(t, s.View(snap), "↓ more")
}

func TestMapPanel(t *testing.T) {
	p := NewMapPanel()
	p.SetSize(40, 10)
	p.Recenter(30, -97, 6)

	col, row, ok := p.project(30, -97)
	require.True(t, ok)
	assert.Equal(t, 20, col)
	assert.Equal(t, 5, row)

	_, _, ok = p.project(60, 10)
	assert.False(t, ok)

	p.PlaceMarker(30, -97, "Here\nZIP: 1")
	view := p.View()
	assert.Contains(t, view, "●")
	assert.Contains(t, view, "ZIP: 1")
	assert.Contains(t, view, "30.0000, -97.0000")

	p.PlaceUserMarker(30, -97, "You")
	assert.Contains(t, p.View(), "◉")

	p.RemoveMarker()
	_, ok = p.Marker()
	assert.False(t, ok)
	assert.False(t, strings.Contains(p.View(), "●"))
}

func TestStatusBar(t *testing.T) {
	km := newKeyMap(true)
	s := NewStatusBar(km.shortHelp())
	s.SetWidth(140)
	assert.Contains(t, s.View(), "loading")

	s.SetCatalog(65, nil)
	s.SetNotice("hello")
	view := s.View()
	assert.Contains(t, view, "65 locations")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "my location")

	s.SetCatalog(0, errors.New("x"))
	assert.Contains(t, s.View(), "unavailable")
}
