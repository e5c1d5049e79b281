package catalog

import (
	"fmt"
	"math"
)

// LocationRecord is one searchable city/ZIP entry. Records are immutable once
// loaded; the same city name may appear under several states.
type LocationRecord struct {
	StateCode string  // Two-letter postal code (e.g. "TX")
	StateName string  // Full state name (e.g. "Texas")
	City      string  // City name
	ZIP       string  // ZIP code, kept as text to preserve leading zeros
	Latitude  float64 // Degrees; NaN when the source value was missing or unparseable
	Longitude float64 // Degrees; NaN when the source value was missing or unparseable
	Timezone  string  // IANA zone name
}

// HasCoordinates reports whether both coordinates are usable. Records without
// coordinates are never matched and never recentered on.
func (r LocationRecord) HasCoordinates() bool {
	if math.IsNaN(r.Latitude) || math.IsNaN(r.Longitude) ||
		math.IsInf(r.Latitude, 0) || math.IsInf(r.Longitude, 0) {
		return false
	}
	return r.Latitude >= -90 && r.Latitude <= 90 && r.Longitude >= -180 && r.Longitude <= 180
}

// Display is the text placed in the search box after a selection,
// e.g. "Austin, TX 73301".
func (r LocationRecord) Display() string {
	return fmt.Sprintf("%s, %s %s", r.City, r.StateCode, r.ZIP)
}

// Title is the short "City, ST" form.
func (r LocationRecord) Title() string {
	return r.City + ", " + r.StateCode
}

// MarkerLabel is the popup text attached to the map marker.
func (r LocationRecord) MarkerLabel() string {
	return fmt.Sprintf("%s\nZIP: %s\nTimezone: %s", r.Title(), r.ZIP, r.Timezone)
}
