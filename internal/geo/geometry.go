// Package geo handles geometry data structures and coordinate conversions
// between the map display projection and WGS84 geographic coordinates.
package geo

import "github.com/paulmach/orb"

// SpatialReference identifies a coordinate system by its well-known ID.
type SpatialReference int

const (
	// WGS84 is geographic longitude/latitude (EPSG:4326).
	WGS84 SpatialReference = 4326
	// WebMercator is the display projection used by the map (EPSG:3857).
	WebMercator SpatialReference = 3857
)

// Geometry is a drawable shape tagged with the spatial reference its
// coordinates are expressed in.
type Geometry interface {
	SpatialRef() SpatialReference
	Bound() orb.Bound
}

// Point is a single (x, y) position.
type Point struct {
	XY orb.Point
	SR SpatialReference
}

// SpatialRef returns the spatial reference the point is expressed in.
func (p Point) SpatialRef() SpatialReference { return p.SR }

// Bound returns the degenerate bounding box around the point.
func (p Point) Bound() orb.Bound {
	return orb.Bound{Min: p.XY, Max: p.XY}
}

// Polyline is an ordered sequence of paths. A path is only meaningful
// with at least two points; degenerate paths are preserved here and
// filtered at conversion time.
type Polyline struct {
	Paths []orb.LineString
	SR    SpatialReference
}

// SpatialRef returns the spatial reference the polyline is expressed in.
func (l Polyline) SpatialRef() SpatialReference { return l.SR }

// Bound returns the union bounding box of all paths.
func (l Polyline) Bound() orb.Bound {
	var b orb.Bound
	first := true
	for _, path := range l.Paths {
		if len(path) == 0 {
			continue
		}
		if first {
			b = path.Bound()
			first = false
			continue
		}
		b = b.Union(path.Bound())
	}
	return b
}

// Expand grows a bounding box around its center by the given factor.
// A factor of 1.2 adds a 10% margin on each side. Degenerate (point)
// bounds are returned unchanged since they have no span to scale.
func Expand(b orb.Bound, factor float64) orb.Bound {
	cx := (b.Min[0] + b.Max[0]) / 2
	cy := (b.Min[1] + b.Max[1]) / 2
	hw := (b.Max[0] - b.Min[0]) / 2 * factor
	hh := (b.Max[1] - b.Min[1]) / 2 * factor

	return orb.Bound{
		Min: orb.Point{cx - hw, cy - hh},
		Max: orb.Point{cx + hw, cy + hh},
	}
}
