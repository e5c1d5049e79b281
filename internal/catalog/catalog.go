// Package catalog holds the in-memory list of searchable US locations.
//
// A Catalog is built once from a Source and is read-only afterwards. Loading
// is all-or-nothing: a malformed or unreachable source yields an error and no
// records at all.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/ruminaider/citysearch/internal/logger"
)

// ErrMalformed is returned when the source document cannot be decoded.
var ErrMalformed = errors.New("malformed location data")

// Catalog is an ordered, read-only sequence of LocationRecord.
type Catalog struct {
	records []LocationRecord
}

// New builds a catalog from already-flattened records. The slice is copied.
func New(records []LocationRecord) *Catalog {
	c := &Catalog{records: make([]LocationRecord, len(records))}
	copy(c.records, records)
	return c
}

// Empty returns a catalog with no records.
func Empty() *Catalog {
	return &Catalog{}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// All yields every record in catalog order.
func (c *Catalog) All() iter.Seq[LocationRecord] {
	return func(yield func(LocationRecord) bool) {
		if c == nil {
			return
		}
		for _, r := range c.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Records returns a copy of the records.
func (c *Catalog) Records() []LocationRecord {
	if c == nil {
		return nil
	}
	out := make([]LocationRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Load reads src and builds a catalog from it.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	data, err := ReadAll(ctx, src)
	if err != nil {
		return nil, err
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	return &Catalog{records: records}, nil
}

// LoadOrEmpty is Load for hosts that must keep running: on failure it logs the
// error and returns an empty catalog, so every search comes back empty.
func LoadOrEmpty(ctx context.Context, src Source, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	c, err := Load(ctx, src)
	if err != nil {
		log.CatalogLoadFailed(src.String(), err)
		return Empty()
	}
	log.CatalogLoaded(src.String(), c.Len())
	return c
}

// stateEntry mirrors one element of the source document.
type stateEntry struct {
	State  string       `json:"state"`
	Name   string       `json:"name"`
	Cities []*cityEntry `json:"cities"`
}

type cityEntry struct {
	City     string      `json:"city"`
	ZIP      string      `json:"zip"`
	Lat      *coordinate `json:"lat"`
	Lon      *coordinate `json:"lon"`
	Timezone string      `json:"timezone"`
}

// coordinate accepts a JSON number or a numeric string. Anything else decodes
// to NaN rather than failing the whole document.
type coordinate float64

func (c *coordinate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*c = coordinate(math.NaN())
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*c = coordinate(math.NaN())
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f = math.NaN()
	}
	*c = coordinate(f)
	return nil
}

func (c *coordinate) value() float64 {
	if c == nil {
		return math.NaN()
	}
	return float64(*c)
}

// Decode flattens a states-with-cities document into records, in document
// order.
func Decode(data []byte) ([]LocationRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	// null anywhere a state, a city list or a city belongs fails the load.
	var states []*stateEntry
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if states == nil {
		return nil, fmt.Errorf("%w: null document", ErrMalformed)
	}
	for i, st := range states {
		if st == nil {
			return nil, fmt.Errorf("%w: state %d is null", ErrMalformed, i)
		}
		if st.Cities == nil {
			return nil, fmt.Errorf("%w: state %d (%s) has no cities list", ErrMalformed, i, st.State)
		}
		for j, ci := range st.Cities {
			if ci == nil {
				return nil, fmt.Errorf("%w: state %d (%s) city %d is null", ErrMalformed, i, st.State, j)
			}
		}
	}

	var records []LocationRecord
	for _, st := range states {
		code := strings.TrimSpace(st.State)
		name := stateName(code, st.Name)
		for _, ci := range st.Cities {
			records = append(records, LocationRecord{
				StateCode: code,
				StateName: name,
				City:      strings.TrimSpace(ci.City),
				ZIP:       strings.TrimSpace(ci.ZIP),
				Latitude:  ci.Lat.value(),
				Longitude: ci.Lon.value(),
				Timezone:  ci.Timezone,
			})
		}
	}
	return records, nil
}
