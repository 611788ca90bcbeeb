package sketch

import (
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/orb"

	"github.com/geosketch/geosketch/internal/geo"
)

// ExtentMargin is the factor applied when framing the view around
// imported content.
const ExtentMargin = 1.2

// View tracks the zoom constraints and the framed extent of the map
// view. Constraint updates follow the apply-button semantics: invalid
// input leaves the previous constraints in effect.
type View struct {
	mu        sync.Mutex
	minZoom   int
	maxZoom   int
	zoom      int
	extent    orb.Bound
	hasExtent bool
}

// NewView returns a view with the given zoom constraints. start is
// clamped into [min, max].
func NewView(min, max, start int) *View {
	if max < min {
		max = min
	}
	return &View{minZoom: min, maxZoom: max, zoom: clampZoom(start, min, max)}
}

// ApplyZoomConstraints parses and applies raw min/max/start inputs.
// Non-numeric min or max, or min > max, is a silent no-op and returns
// false. A non-numeric start defaults to the midpoint of [min, max];
// a numeric start is clamped into that range.
func (v *View) ApplyZoomConstraints(minRaw, maxRaw, startRaw string) bool {
	min, err := strconv.Atoi(strings.TrimSpace(minRaw))
	if err != nil {
		return false
	}
	max, err := strconv.Atoi(strings.TrimSpace(maxRaw))
	if err != nil {
		return false
	}
	if min > max {
		return false
	}

	start, err := strconv.Atoi(strings.TrimSpace(startRaw))
	if err != nil {
		start = (min + max) / 2
	}

	v.mu.Lock()
	v.minZoom = min
	v.maxZoom = max
	v.zoom = clampZoom(start, min, max)
	v.mu.Unlock()

	return true
}

// Constraints returns the current min/max constraint and zoom level.
func (v *View) Constraints() (min, max, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.minZoom, v.maxZoom, v.zoom
}

// FrameExtent records the extent the view should frame, expanded
// around its center by the given factor.
func (v *View) FrameExtent(b orb.Bound, factor float64) {
	v.mu.Lock()
	v.extent = geo.Expand(b, factor)
	v.hasExtent = true
	v.mu.Unlock()
}

// Extent returns the framed extent, if one has been set.
func (v *View) Extent() (orb.Bound, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.extent, v.hasExtent
}

func clampZoom(z, min, max int) int {
	if z < min {
		return min
	}
	if z > max {
		return max
	}
	return z
}
