// Package matcher filters a catalog by substring.
package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/ruminaider/citysearch/internal/catalog"
)

// DefaultMaxResults is the number of suggestions shown by default.
const DefaultMaxResults = 25

// Normalize lowercases and trims a raw query.
func Normalize(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

// Match returns up to maxResults records, in catalog order, whose city, state
// code or state name contains the normalized query (case-insensitive), or
// whose ZIP contains it verbatim. Queries shorter than minLength runes match
// nothing. Records without usable coordinates are skipped.
func Match(c *catalog.Catalog, query string, minLength, maxResults int) []catalog.LocationRecord {
	q := Normalize(query)
	if q == "" || utf8.RuneCountInString(q) < minLength || maxResults <= 0 {
		return nil
	}

	var out []catalog.LocationRecord
	for r := range c.All() {
		if !r.HasCoordinates() || !matches(r, q) {
			continue
		}
		out = append(out, r)
		if len(out) == maxResults {
			break
		}
	}
	return out
}

// matches reports whether normalized query q hits any searchable field of r.
func matches(r catalog.LocationRecord, q string) bool {
	return strings.Contains(strings.ToLower(r.City), q) ||
		strings.Contains(strings.ToLower(r.StateCode), q) ||
		strings.Contains(strings.ToLower(r.StateName), q) ||
		strings.Contains(r.ZIP, q)
}
