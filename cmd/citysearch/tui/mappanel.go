package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/geolocate"
)

// Initial view over the contiguous United States.
const (
	homeLat  = 39.5
	homeLon  = -98.35
	homeZoom = 3
)

// MarkerView describes the marker currently on the map.
type MarkerView struct {
	Lat, Lon float64
	Label    string
	User     bool // user-location marker rather than a search result
}

// MapPanel is a character-cell map. It is the widget's viewport: the widget
// recenters it and places or removes its single marker.
type MapPanel struct {
	lat, lon float64
	zoom     int
	marker   *MarkerView
	points   []catalog.LocationRecord
	width    int
	height   int
}

// NewMapPanel returns a panel centred on the contiguous United States.
func NewMapPanel() *MapPanel {
	return &MapPanel{lat: homeLat, lon: homeLon, zoom: homeZoom, width: 40, height: 14}
}

// Recenter moves the view.
func (p *MapPanel) Recenter(lat, lon float64, zoom int) {
	p.lat, p.lon, p.zoom = lat, lon, zoom
}

// PlaceMarker sets the search result marker.
func (p *MapPanel) PlaceMarker(lat, lon float64, label string) {
	p.marker = &MarkerView{Lat: lat, Lon: lon, Label: label}
}

// PlaceUserMarker sets the user-location marker.
func (p *MapPanel) PlaceUserMarker(lat, lon float64, label string) {
	p.marker = &MarkerView{Lat: lat, Lon: lon, Label: label, User: true}
}

// RemoveMarker clears the marker.
func (p *MapPanel) RemoveMarker() {
	p.marker = nil
}

// Center returns the current view centre and zoom.
func (p *MapPanel) Center() (lat, lon float64, zoom int) {
	return p.lat, p.lon, p.zoom
}

// Marker returns the current marker, if any.
func (p *MapPanel) Marker() (MarkerView, bool) {
	if p.marker == nil {
		return MarkerView{}, false
	}
	return *p.marker, true
}

// SetPoints sets the background dots, usually the whole catalog.
func (p *MapPanel) SetPoints(c *catalog.Catalog) {
	p.points = p.points[:0]
	for r := range c.All() {
		if r.HasCoordinates() {
			p.points = append(p.points, r)
		}
	}
}

// SetSize sets the grid size in cells, excluding the frame.
func (p *MapPanel) SetSize(w, h int) {
	p.width = max(w, 10)
	p.height = max(h, 4)
}

// spans returns the visible longitude and latitude extents in degrees.
// Terminal cells are about twice as tall as wide.
func (p *MapPanel) spans() (lonSpan, latSpan float64) {
	lonSpan = 720 / math.Pow(2, float64(p.zoom))
	latSpan = lonSpan * 2 * float64(p.height) / float64(p.width)
	return lonSpan, latSpan
}

// project maps a point to a grid cell.
func (p *MapPanel) project(lat, lon float64) (col, row int, ok bool) {
	lonSpan, latSpan := p.spans()
	x := (lon - (p.lon - lonSpan/2)) / lonSpan
	y := ((p.lat + latSpan/2) - lat) / latSpan
	if x < 0 || x >= 1 || y < 0 || y >= 1 {
		return 0, 0, false
	}
	return int(x * float64(p.width)), int(y * float64(p.height)), true
}

// View renders the header, the framed grid and the marker popup.
func (p *MapPanel) View() string {
	grid := make([][]string, p.height)
	for i := range grid {
		grid[i] = make([]string, p.width)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	for _, r := range p.points {
		if col, row, ok := p.project(r.Latitude, r.Longitude); ok {
			grid[row][col] = MapDotStyle.Render("·")
		}
	}
	if m := p.marker; m != nil {
		if col, row, ok := p.project(m.Lat, m.Lon); ok {
			if m.User {
				grid[row][col] = UserMarkerStyle.Render("◉")
			} else {
				grid[row][col] = MarkerStyle.Render("●")
			}
		}
	}

	rows := make([]string, p.height)
	for i, cells := range grid {
		rows[i] = strings.Join(cells, "")
	}

	header := MapHeaderStyle.Render(fmt.Sprintf("%.4f, %.4f  z%d", p.lat, p.lon, p.zoom))
	if m := p.marker; m != nil && !m.User {
		km := geolocate.DistanceKm(p.lat, p.lon, m.Lat, m.Lon)
		if km >= 1 {
			header += DimStyle.Render(fmt.Sprintf("  marker %.0f km away", km))
		}
	}
	header = ansi.Truncate(header, p.width+2, "…")

	out := []string{header, MapFrameStyle.Render(strings.Join(rows, "\n"))}
	if m := p.marker; m != nil {
		var lines []string
		for _, l := range strings.Split(m.Label, "\n") {
			lines = append(lines, ansi.Truncate(l, p.width, "…"))
		}
		out = append(out, PopupStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
