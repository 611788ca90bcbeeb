package sketch

import (
	"sync"

	"github.com/paulmach/orb"
)

// Layer holds the ordered set of graphics. All mutations are atomic:
// observers see the layer either before or after a batch, never
// mid-batch, and each batch produces exactly one change notification.
type Layer struct {
	mu        sync.Mutex
	graphics  []*Graphic
	observers []func()
}

// NewLayer returns an empty layer.
func NewLayer() *Layer {
	return &Layer{}
}

// OnGraphicsChanged registers a handler invoked once after every
// mutation batch. Handlers run synchronously on the mutating call,
// outside the layer lock.
func (l *Layer) OnGraphicsChanged(handler func()) {
	l.mu.Lock()
	l.observers = append(l.observers, handler)
	l.mu.Unlock()
}

// Add appends a single graphic.
func (l *Layer) Add(g *Graphic) {
	l.mu.Lock()
	l.graphics = append(l.graphics, g)
	l.mu.Unlock()

	l.notify()
}

// AddMany appends graphics in order as one batch.
func (l *Layer) AddMany(gs []*Graphic) {
	if len(gs) == 0 {
		return
	}

	l.mu.Lock()
	l.graphics = append(l.graphics, gs...)
	l.mu.Unlock()

	l.notify()
}

// RemoveAll clears the layer.
func (l *Layer) RemoveAll() {
	l.mu.Lock()
	l.graphics = nil
	l.mu.Unlock()

	l.notify()
}

// ReplaceAll clears the layer and installs the given graphics as a
// single batch, so downstream observers receive one state change,
// not one per graphic.
func (l *Layer) ReplaceAll(gs []*Graphic) {
	l.mu.Lock()
	l.graphics = append([]*Graphic(nil), gs...)
	l.mu.Unlock()

	l.notify()
}

// Graphics returns an ordered snapshot of the current graphics.
func (l *Layer) Graphics() []*Graphic {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]*Graphic(nil), l.graphics...)
}

// Count returns the number of graphics in the layer.
func (l *Layer) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.graphics)
}

// Bound returns the union bounding box of all graphics with geometry,
// in the display projection. The second result is false when the layer
// holds nothing boundable.
func (l *Layer) Bound() (orb.Bound, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b orb.Bound
	found := false
	for _, g := range l.graphics {
		if g == nil || g.Geometry == nil {
			continue
		}
		if !found {
			b = g.Geometry.Bound()
			found = true
			continue
		}
		b = b.Union(g.Geometry.Bound())
	}

	return b, found
}

func (l *Layer) notify() {
	l.mu.Lock()
	observers := make([]func(), len(l.observers))
	copy(observers, l.observers)
	l.mu.Unlock()

	for _, handler := range observers {
		handler()
	}
}
