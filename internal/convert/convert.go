// Package convert provides the bidirectional conversion between drawn
// graphics and GeoJSON FeatureCollections.
//
// Coordinates on the GeoJSON side are always WGS84 [longitude, latitude]
// per RFC 7946, independent of the display projection the graphics are
// stored in. Conversion is best-effort: unusable features and degenerate
// paths are skipped and counted, never fatal. The only error is
// syntactically invalid JSON on import.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/geosketch/geosketch/internal/geo"
	"github.com/geosketch/geosketch/internal/sketch"
)

// Result reports the outcome of an import: graphics created and
// features skipped as unusable.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ToFeatureCollection walks the ordered graphics and emits a GeoJSON
// FeatureCollection.
//
// Graphics without geometry are skipped. A point graphic emits one
// Point feature carrying the graphic's attributes as properties. A
// polyline graphic emits one LineString feature per path with at least
// two points, each sharing the parent graphic's attributes; shorter
// paths are dropped. Feature order follows graphic order, then path
// order within a graphic.
func ToFeatureCollection(graphics []*sketch.Graphic) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, g := range graphics {
		if g == nil || g.Geometry == nil {
			continue
		}

		props := g.Attributes
		if props == nil {
			props = map[string]interface{}{}
		}

		switch geom := geo.ToGeographic(g.Geometry).(type) {
		case geo.Point:
			f := geojson.NewFeature(orb.Point(geom.XY))
			f.Properties = geojson.Properties(props)
			fc.Append(f)
		case geo.Polyline:
			for _, path := range geom.Paths {
				if len(path) < 2 {
					continue
				}
				f := geojson.NewFeature(path)
				f.Properties = geojson.Properties(props)
				fc.Append(f)
			}
		}
	}

	return fc
}

// Marshal renders a collection as the pretty-printed text shown in the
// page's text surface.
func Marshal(fc *geojson.FeatureCollection) ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}

// FromFeatureCollection parses raw GeoJSON text and reconstructs
// graphics in the display projection.
//
// Invalid JSON returns an error and no graphics. A missing or non-array
// "features" field is treated as an empty collection. Features with
// missing geometry, unsupported geometry types, non-numeric point
// coordinates, or LineStrings with fewer than two positions are skipped
// and counted. Feature properties become graphic attributes, for points
// as well as lines.
func FromFeatureCollection(raw []byte) ([]*sketch.Graphic, Result, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, Result{}, fmt.Errorf("parse GeoJSON: %w", err)
	}

	obj, _ := doc.(map[string]interface{})
	feats, _ := obj["features"].([]interface{})

	var graphics []*sketch.Graphic
	var res Result

	for _, entry := range feats {
		feat, ok := entry.(map[string]interface{})
		if !ok {
			res.Skipped++
			continue
		}
		geomMap, ok := feat["geometry"].(map[string]interface{})
		if !ok {
			res.Skipped++
			continue
		}
		props, _ := feat["properties"].(map[string]interface{})

		var geom geo.Geometry
		switch geomMap["type"] {
		case "Point":
			pt, ok := coordPair(geomMap["coordinates"])
			if !ok {
				res.Skipped++
				continue
			}
			geom = geo.ToDisplay(geo.Point{XY: pt, SR: geo.WGS84})
		case "LineString":
			path := coordList(geomMap["coordinates"])
			if len(path) < 2 {
				res.Skipped++
				continue
			}
			geom = geo.ToDisplay(geo.Polyline{
				Paths: []orb.LineString{path},
				SR:    geo.WGS84,
			})
		default:
			res.Skipped++
			continue
		}

		graphics = append(graphics, &sketch.Graphic{Geometry: geom, Attributes: props})
		res.Created++
	}

	return graphics, res, nil
}

func coordPair(v interface{}) (orb.Point, bool) {
	list, ok := v.([]interface{})
	if !ok || len(list) < 2 {
		return orb.Point{}, false
	}

	x, xOk := list[0].(float64)
	y, yOk := list[1].(float64)
	if !xOk || !yOk {
		return orb.Point{}, false
	}

	return orb.Point{x, y}, true
}

func coordList(v interface{}) orb.LineString {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}

	var path orb.LineString
	for _, entry := range list {
		if pt, ok := coordPair(entry); ok {
			path = append(path, pt)
		}
	}

	return path
}
