package sketch

import (
	"sync"

	"github.com/paulmach/orb"

	"github.com/geosketch/geosketch/internal/geo"
)

// Session binds a layer and a view into one sketching session, plus the
// optional click-to-add-point mode. It replaces the page-global map,
// view and layer singletons of the original page with an explicit
// object handlers can be given.
type Session struct {
	Layer *Layer
	View  *View

	mu        sync.Mutex
	clickMode bool
}

// NewSession returns a session over an empty layer.
func NewSession(view *View) *Session {
	return &Session{Layer: NewLayer(), View: view}
}

// SetClickMode enables or disables click-to-add-point mode.
func (s *Session) SetClickMode(on bool) {
	s.mu.Lock()
	s.clickMode = on
	s.mu.Unlock()
}

// ClickMode reports whether click-to-add-point mode is enabled.
func (s *Session) ClickMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clickMode
}

// HandleClick creates a point graphic at the clicked display-projection
// location, stamped with the geographic lon/lat as attributes. It
// returns nil without touching the layer when click mode is disabled.
func (s *Session) HandleClick(x, y float64) *Graphic {
	if !s.ClickMode() {
		return nil
	}

	pt := geo.Point{XY: orb.Point{x, y}, SR: geo.WebMercator}
	gpt, ok := geo.ToGeographic(pt).(geo.Point)
	if !ok {
		return nil
	}

	g := &Graphic{
		Geometry: pt,
		Attributes: map[string]interface{}{
			"lon": gpt.XY[0],
			"lat": gpt.XY[1],
		},
	}
	s.Layer.Add(g)

	return g
}

// FrameToContent frames the view around the combined extent of all
// current graphics, expanded by ExtentMargin. It reports whether there
// was any content to frame; an empty layer leaves the view untouched.
func (s *Session) FrameToContent() (orb.Bound, bool) {
	b, ok := s.Layer.Bound()
	if !ok {
		return orb.Bound{}, false
	}
	s.View.FrameExtent(b, ExtentMargin)

	extent, _ := s.View.Extent()
	return extent, true
}
