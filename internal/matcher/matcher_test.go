package matcher_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	austin      = catalog.LocationRecord{StateCode: "TX", StateName: "Texas", City: "Austin", ZIP: "73301", Latitude: 30.27, Longitude: -97.74, Timezone: "America/Chicago"}
	dallas      = catalog.LocationRecord{StateCode: "TX", StateName: "Texas", City: "Dallas", ZIP: "75201", Latitude: 32.78, Longitude: -96.80, Timezone: "America/Chicago"}
	springIL    = catalog.LocationRecord{StateCode: "IL", StateName: "Illinois", City: "Springfield", ZIP: "62701", Latitude: 39.78, Longitude: -89.65, Timezone: "America/Chicago"}
	springMA    = catalog.LocationRecord{StateCode: "MA", StateName: "Massachusetts", City: "Springfield", ZIP: "01103", Latitude: 42.10, Longitude: -72.59, Timezone: "America/New_York"}
	boston      = catalog.LocationRecord{StateCode: "MA", StateName: "Massachusetts", City: "Boston", ZIP: "02108", Latitude: 42.36, Longitude: -71.06, Timezone: "America/New_York"}
	nyc         = catalog.LocationRecord{StateCode: "NY", StateName: "New York", City: "New York", ZIP: "10001", Latitude: 40.71, Longitude: -74.01, Timezone: "America/New_York"}
	noCoords    = catalog.LocationRecord{StateCode: "TX", StateName: "Texas", City: "Austwell", ZIP: "77950", Latitude: math.NaN(), Longitude: math.NaN()}
	testRecords = []catalog.LocationRecord{austin, dallas, springIL, springMA, boston, nyc, noCoords}
)

func testCatalog() *catalog.Catalog {
	return catalog.New(testRecords)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "new york", matcher.Normalize("  New York \t"))
	assert.Equal(t, "", matcher.Normalize("   "))
}

func TestMatch_ShorterThanMinLength(t *testing.T) {
	c := testCatalog()
	for _, q := range []string{"", " ", "a", " A ", "ab"} {
		assert.Empty(t, matcher.Match(c, q, 3, 25), "query %q", q)
	}
	assert.NotEmpty(t, matcher.Match(c, "aus", 3, 25))
}

func TestMatch_ExactCityNameIsFound(t *testing.T) {
	c := testCatalog()
	for _, r := range testRecords {
		if !r.HasCoordinates() {
			continue
		}
		got := matcher.Match(c, strings.ToLower(r.City), 1, 25)
		assert.Contains(t, got, r, "query %q", strings.ToLower(r.City))
	}
}

func TestMatch_BoundedAndStable(t *testing.T) {
	c, err := catalog.Load(context.Background(), catalog.EmbeddedSource{})
	require.NoError(t, err)
	all := c.Records()

	for _, q := range []string{"a", "an", "e", "s", "1", "9"} {
		for _, max := range []int{1, 3, 25} {
			got := matcher.Match(c, q, 1, max)
			assert.LessOrEqual(t, len(got), max)

			// result order is a subsequence of catalog order
			j := 0
			for _, r := range got {
				for j < len(all) && !cmp.Equal(all[j], r) {
					j++
				}
				require.Less(t, j, len(all), "query %q result %s out of catalog order", q, r.Title())
				j++
			}
		}
	}
}

func TestMatch_Fields(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name  string
		query string
		want  []catalog.LocationRecord
	}{
		{"city substring, case-insensitive", "SPRING", []catalog.LocationRecord{springIL, springMA}},
		{"state code", "ma", []catalog.LocationRecord{springMA, boston}},
		{"state name", "massachu", []catalog.LocationRecord{springMA, boston}},
		{"zip raw containment", "021", []catalog.LocationRecord{boston}},
		{"zip leading zero", "011", []catalog.LocationRecord{springMA}},
		{"city and state name both hit once", "new york", []catalog.LocationRecord{nyc}},
		{"no match", "999999", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.Match(c, tt.query, 1, 25)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestMatch_TexasFirstFound(t *testing.T) {
	got := matcher.Match(testCatalog(), "tx", 1, 1)
	require.Len(t, got, 1)
	assert.Equal(t, austin, got[0])
}

func TestMatch_SkipsRecordsWithoutCoordinates(t *testing.T) {
	got := matcher.Match(testCatalog(), "austwell", 1, 25)
	assert.Empty(t, got)

	got = matcher.Match(testCatalog(), "aust", 1, 25)
	assert.Equal(t, []catalog.LocationRecord{austin}, got)
}

func TestMatch_NonPositiveMax(t *testing.T) {
	assert.Empty(t, matcher.Match(testCatalog(), "austin", 1, 0))
	assert.Empty(t, matcher.Match(testCatalog(), "austin", 1, -1))
}

func TestMatch_EmptyCatalog(t *testing.T) {
	assert.Empty(t, matcher.Match(catalog.Empty(), "new york", 1, 25))
	assert.Empty(t, matcher.Match(nil, "new york", 1, 25))
}

func TestMatch_DoesNotMutateCatalog(t *testing.T) {
	c := testCatalog()
	before := c.Records()
	matcher.Match(c, "spring", 1, 25)
	if diff := cmp.Diff(before, c.Records(), cmp.Comparer(func(a, b float64) bool {
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	})); diff != "" {
		t.Errorf("catalog changed (-before +after):\n%s", diff)
	}
}
