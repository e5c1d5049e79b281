// Package selection tracks the highlighted suggestion and turns key and
// pointer events into commits.
//
// A Controller is either Idle (nothing listed) or Listing (one or more
// matches shown). The highlight is always none or a valid index into the
// current matches, and it is reset every time the matches change.
package selection

import "github.com/ruminaider/citysearch/internal/catalog"

// State is the controller's coarse state.
type State int

const (
	Idle State = iota
	Listing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listing:
		return "listing"
	default:
		return "unknown"
	}
}

// Options picks between the behaviours the widget variants disagree on.
type Options struct {
	// HighlightFirst highlights index 0 whenever a new non-empty list is shown.
	HighlightFirst bool
	// Wrap makes arrow movement wrap around the ends of the list. Without it
	// movement stops at the first and last items.
	Wrap bool
}

// DefaultOptions returns no pre-highlight with wraparound.
func DefaultOptions() Options {
	return Options{Wrap: true}
}

// Selected is emitted when a suggestion is committed.
type Selected struct {
	Record catalog.LocationRecord
	Index  int // position in the list, or -1 when chosen from outside it
}

const none = -1

// Controller is the selection state machine. The zero value is not usable;
// call New.
type Controller struct {
	opts      Options
	matches   []catalog.LocationRecord
	highlight int
}

// New returns an Idle controller.
func New(opts Options) *Controller {
	return &Controller{opts: opts, highlight: none}
}

// Options returns the options the controller was built with.
func (c *Controller) Options() Options { return c.opts }

// State returns Idle or Listing.
func (c *Controller) State() State {
	if len(c.matches) == 0 {
		return Idle
	}
	return Listing
}

// Matches returns the listed matches. The slice must not be modified.
func (c *Controller) Matches() []catalog.LocationRecord {
	return c.matches
}

// Highlighted returns the highlighted index, if any.
func (c *Controller) Highlighted() (int, bool) {
	if c.highlight == none {
		return 0, false
	}
	return c.highlight, true
}

// QueryChanged replaces the list. An empty list moves to Idle.
func (c *Controller) QueryChanged(matches []catalog.LocationRecord) {
	if len(matches) == 0 {
		c.reset()
		return
	}
	c.matches = matches
	c.highlight = none
	if c.opts.HighlightFirst {
		c.highlight = 0
	}
}

// ArrowDown moves the highlight one item down. No-op when Idle.
func (c *Controller) ArrowDown() {
	n := len(c.matches)
	if n == 0 {
		return
	}
	switch {
	case c.highlight == none:
		c.highlight = 0
	case c.highlight < n-1:
		c.highlight++
	case c.opts.Wrap:
		c.highlight = 0
	}
}

// ArrowUp moves the highlight one item up. No-op when Idle.
func (c *Controller) ArrowUp() {
	n := len(c.matches)
	if n == 0 {
		return
	}
	switch {
	case c.highlight == none:
		c.highlight = n - 1
	case c.highlight > 0:
		c.highlight--
	case c.opts.Wrap:
		c.highlight = n - 1
	}
}

// SetHighlight highlights index i, as a pointer hover does. Out-of-range
// indices are ignored.
func (c *Controller) SetHighlight(i int) {
	if i < 0 || i >= len(c.matches) {
		return
	}
	c.highlight = i
}

// Enter commits the highlighted item and returns to Idle. With nothing
// highlighted it does nothing and reports false.
func (c *Controller) Enter() (Selected, bool) {
	if c.highlight == none || len(c.matches) == 0 {
		return Selected{}, false
	}
	return c.commit(c.highlight), true
}

// Click commits item i regardless of the highlight.
func (c *Controller) Click(i int) (Selected, bool) {
	if i < 0 || i >= len(c.matches) {
		return Selected{}, false
	}
	return c.commit(i), true
}

// Choose commits a record that did not come from the list.
func (c *Controller) Choose(r catalog.LocationRecord) Selected {
	c.reset()
	return Selected{Record: r, Index: none}
}

// Clear drops the list and highlight.
func (c *Controller) Clear() {
	c.reset()
}

func (c *Controller) commit(i int) Selected {
	sel := Selected{Record: c.matches[i], Index: i}
	c.reset()
	return sel
}

func (c *Controller) reset() {
	c.matches = nil
	c.highlight = none
}
