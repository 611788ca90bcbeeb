package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ToGeographic returns an equivalent geometry expressed in WGS84
// longitude/latitude. Geometries already flagged as WGS84 are returned
// unchanged. The conversion is applied per coordinate and is pure.
func ToGeographic(g Geometry) Geometry {
	if g == nil || g.SpatialRef() == WGS84 {
		return g
	}
	return reproject(g, WGS84, project.Mercator.ToWGS84)
}

// ToDisplay is the inverse of ToGeographic: it returns an equivalent
// geometry expressed in the Web Mercator display projection.
func ToDisplay(g Geometry) Geometry {
	if g == nil || g.SpatialRef() == WebMercator {
		return g
	}
	return reproject(g, WebMercator, project.WGS84.ToMercator)
}

func reproject(g Geometry, sr SpatialReference, fn orb.Projection) Geometry {
	switch v := g.(type) {
	case Point:
		return Point{XY: fn(v.XY), SR: sr}
	case Polyline:
		paths := make([]orb.LineString, len(v.Paths))
		for i, path := range v.Paths {
			out := make(orb.LineString, len(path))
			for j, pt := range path {
				out[j] = fn(pt)
			}
			paths[i] = out
		}
		return Polyline{Paths: paths, SR: sr}
	default:
		return g
	}
}
