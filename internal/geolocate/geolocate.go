// Package geolocate answers "where am I" for the locate-me action.
package geolocate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/golang/geo/s2"
	"github.com/ruminaider/citysearch/internal/catalog"
)

// ErrDenied is returned when no position is available: the user or host
// refused, or the lookup service could not place us.
var ErrDenied = errors.New("location unavailable")

// Position is a point in degrees.
type Position struct {
	Lat float64
	Lon float64
}

// Valid reports whether p is a finite point on the globe.
func (p Position) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p Position) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
}

// Locator resolves the current position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// Static always reports the same position.
type Static Position

// Locate returns the fixed position, or ErrDenied if it is not a valid point.
func (s Static) Locate(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	p := Position(s)
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: invalid static position %s", ErrDenied, p)
	}
	return p, nil
}

// Denied never yields a position.
type Denied struct{}

// Locate always fails with ErrDenied.
func (Denied) Locate(context.Context) (Position, error) {
	return Position{}, ErrDenied
}

// DefaultIPURL is an ip-api.com compatible endpoint.
const DefaultIPURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// IPLocator estimates the position from the caller's public IP using an
// ip-api.com style JSON service.
type IPLocator struct {
	URL    string       // defaults to DefaultIPURL
	Client *http.Client // defaults to a client with a 10s timeout
}

type ipResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Locate queries the service. A "fail" status or missing coordinates map to
// ErrDenied; transport failures are returned as is.
func (l IPLocator) Locate(ctx context.Context) (Position, error) {
	url := l.URL
	if url == "" {
		url = DefaultIPURL
	}
	client := l.Client
	if client == nil {
		client = httpClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Position{}, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Position{}, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, fmt.Errorf("decoding %s response: %w", url, err)
	}
	if body.Status != "" && body.Status != "success" {
		return Position{}, fmt.Errorf("%w: %s", ErrDenied, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return Position{}, fmt.Errorf("%w: response has no coordinates", ErrDenied)
	}

	p := Position{Lat: *body.Lat, Lon: *body.Lon}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: invalid position %s", ErrDenied, p)
	}
	return p, nil
}

// EarthRadiusKm is the mean Earth radius used to turn angles into distances.
const EarthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(aLat, aLon, bLat, bLon float64) float64 {
	a := s2.LatLngFromDegrees(aLat, aLon)
	b := s2.LatLngFromDegrees(bLat, bLon)
	return a.Distance(b).Radians() * EarthRadiusKm
}

// Nearest returns the catalog record closest to pos and its distance in
// kilometres. Records without coordinates are ignored. Ties keep the earlier
// record. ok is false for an empty catalog or an invalid position.
func Nearest(c *catalog.Catalog, pos Position) (rec catalog.LocationRecord, km float64, ok bool) {
	if !pos.Valid() {
		return catalog.LocationRecord{}, 0, false
	}

	query := s2.LatLngFromDegrees(pos.Lat, pos.Lon)
	best := math.Inf(1)
	for r := range c.All() {
		if !r.HasCoordinates() {
			continue
		}
		d := query.Distance(s2.LatLngFromDegrees(r.Latitude, r.Longitude)).Radians()
		if d < best {
			best, rec, ok = d, r, true
		}
	}
	if !ok {
		return catalog.LocationRecord{}, 0, false
	}
	return rec, best * EarthRadiusKm, true
}
