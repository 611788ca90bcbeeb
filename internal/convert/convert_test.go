package convert

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/geosketch/geosketch/internal/geo"
	"github.com/geosketch/geosketch/internal/sketch"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func displayPoint(lon, lat float64, attrs map[string]interface{}) *sketch.Graphic {
	return &sketch.Graphic{
		Geometry:   geo.ToDisplay(geo.Point{XY: orb.Point{lon, lat}, SR: geo.WGS84}),
		Attributes: attrs,
	}
}

func displayLine(attrs map[string]interface{}, paths ...orb.LineString) *sketch.Graphic {
	return &sketch.Graphic{
		Geometry:   geo.ToDisplay(geo.Polyline{Paths: paths, SR: geo.WGS84}),
		Attributes: attrs,
	}
}

func TestExportPoint(t *testing.T) {
	attrs := map[string]interface{}{"lon": 106.63, "lat": 10.82}

	fc := ToFeatureCollection([]*sketch.Graphic{displayPoint(106.63, 10.82, attrs)})

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	f := fc.Features[0]

	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected Point geometry, got %T", f.Geometry)
	}
	if !near(pt[0], 106.63) || !near(pt[1], 10.82) {
		t.Errorf("coordinates: got %v, want [106.63, 10.82]", pt)
	}
	if f.Properties["lon"] != 106.63 {
		t.Errorf("properties not carried: %v", f.Properties)
	}
}

func TestExportPointWithoutAttributes(t *testing.T) {
	fc := ToFeatureCollection([]*sketch.Graphic{displayPoint(0, 0, nil)})

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties == nil {
		t.Error("expected empty properties mapping, got nil")
	}
}

func TestExportSkipsMissingGeometry(t *testing.T) {
	graphics := []*sketch.Graphic{
		{Geometry: nil},
		nil,
		displayPoint(1, 2, nil),
	}

	fc := ToFeatureCollection(graphics)

	if len(fc.Features) != 1 {
		t.Errorf("expected 1 feature, got %d", len(fc.Features))
	}
}

func TestExportSplitsPolylinePaths(t *testing.T) {
	attrs := map[string]interface{}{"name": "route"}
	line := displayLine(attrs,
		orb.LineString{{0, 0}, {1, 1}},
		orb.LineString{{2, 2}, {3, 3}, {4, 4}},
	)

	fc := ToFeatureCollection([]*sketch.Graphic{line})

	if len(fc.Features) != 2 {
		t.Fatalf("expected one LineString per path, got %d features", len(fc.Features))
	}
	for i, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok {
			t.Fatalf("feature %d: expected LineString, got %T", i, f.Geometry)
		}
		if f.Properties["name"] != "route" {
			t.Errorf("feature %d: shared attributes not duplicated: %v", i, f.Properties)
		}
		if i == 0 && len(ls) != 2 {
			t.Errorf("first path: got %d points, want 2", len(ls))
		}
		if i == 1 && len(ls) != 3 {
			t.Errorf("second path: got %d points, want 3", len(ls))
		}
	}
}

func TestExportDropsShortPaths(t *testing.T) {
	line := displayLine(nil,
		orb.LineString{{0, 0}, {1, 1}},
		orb.LineString{{2, 2}},
	)

	fc := ToFeatureCollection([]*sketch.Graphic{line})

	if len(fc.Features) != 1 {
		t.Fatalf("expected the single-point path to be dropped, got %d features", len(fc.Features))
	}
	ls := fc.Features[0].Geometry.(orb.LineString)
	if len(ls) != 2 {
		t.Errorf("surviving path: got %d points, want 2", len(ls))
	}
}

func TestExportOrderFollowsGraphics(t *testing.T) {
	graphics := []*sketch.Graphic{
		displayPoint(1, 1, nil),
		displayLine(nil, orb.LineString{{2, 2}, {3, 3}}),
		displayPoint(4, 4, nil),
	}

	fc := ToFeatureCollection(graphics)

	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
	if _, ok := fc.Features[0].Geometry.(orb.Point); !ok {
		t.Errorf("feature 0: expected Point, got %T", fc.Features[0].Geometry)
	}
	if _, ok := fc.Features[1].Geometry.(orb.LineString); !ok {
		t.Errorf("feature 1: expected LineString, got %T", fc.Features[1].Geometry)
	}
	if _, ok := fc.Features[2].Geometry.(orb.Point); !ok {
		t.Errorf("feature 2: expected Point, got %T", fc.Features[2].Geometry)
	}
}

func TestImportPoint(t *testing.T) {
	raw := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[106.63,10.82]}}]}`

	graphics, res, err := FromFeatureCollection([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 1 || res.Skipped != 0 {
		t.Errorf("result: got %+v, want {Created:1 Skipped:0}", res)
	}
	if len(graphics) != 1 {
		t.Fatalf("expected 1 graphic, got %d", len(graphics))
	}

	pt, ok := graphics[0].Geometry.(geo.Point)
	if !ok {
		t.Fatalf("expected point geometry, got %T", graphics[0].Geometry)
	}
	if pt.SR != geo.WebMercator {
		t.Errorf("expected display projection, got %d", pt.SR)
	}

	back := geo.ToGeographic(pt).(geo.Point)
	if !near(back.XY[0], 106.63) || !near(back.XY[1], 10.82) {
		t.Errorf("location: got %v, want [106.63, 10.82]", back.XY)
	}
}

func TestImportInvalidJSON(t *testing.T) {
	_, _, err := FromFeatureCollection([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse GeoJSON") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestImportLenientShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{"Empty features", `{"type":"FeatureCollection","features":[]}`, Result{}},
		{"Features not an array", `{"type":"FeatureCollection","features":42}`, Result{}},
		{"No features field", `{"type":"FeatureCollection"}`, Result{}},
		{"Top level not an object", `[1,2,3]`, Result{}},
		{"Missing geometry", `{"features":[{"type":"Feature","properties":{}}]}`, Result{Skipped: 1}},
		{"Unsupported type", `{"features":[{"geometry":{"type":"Polygon","coordinates":[]}}]}`, Result{Skipped: 1}},
		{"Short line", `{"features":[{"geometry":{"type":"LineString","coordinates":[[1,1]]}}]}`, Result{Skipped: 1}},
		{"Non numeric point", `{"features":[{"geometry":{"type":"Point","coordinates":["a",2]}}]}`, Result{Skipped: 1}},
		{"Mixed", `{"features":[
			{"geometry":{"type":"Point","coordinates":[1,2]}},
			{"geometry":{"type":"Bogus"}},
			{"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}
		]}`, Result{Created: 2, Skipped: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graphics, res, err := FromFeatureCollection([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != tt.want {
				t.Errorf("result: got %+v, want %+v", res, tt.want)
			}
			if len(graphics) != tt.want.Created {
				t.Errorf("graphics: got %d, want %d", len(graphics), tt.want.Created)
			}
		})
	}
}

func TestImportRestoresProperties(t *testing.T) {
	raw := `{"features":[{"type":"Feature","properties":{"name":"depot"},"geometry":{"type":"Point","coordinates":[3,4]}}]}`

	graphics, _, err := FromFeatureCollection([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graphics) != 1 {
		t.Fatalf("expected 1 graphic, got %d", len(graphics))
	}
	if graphics[0].Attributes["name"] != "depot" {
		t.Errorf("attributes not restored: %v", graphics[0].Attributes)
	}
}

func TestRoundTrip(t *testing.T) {
	original := []*sketch.Graphic{
		displayPoint(106.63, 10.82, map[string]interface{}{"lon": 106.63, "lat": 10.82}),
		displayLine(map[string]interface{}{"name": "river"},
			orb.LineString{{10, 20}, {11, 21}},
			orb.LineString{{30, 40}, {31, 41}},
		),
	}

	first, err := Marshal(ToFeatureCollection(original))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	graphics, res, err := FromFeatureCollection(first)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// The multi-path polyline collapses into one graphic per path.
	if res.Created != 3 {
		t.Fatalf("expected 3 graphics after round trip, got %d", res.Created)
	}

	second := ToFeatureCollection(graphics)
	firstFC := ToFeatureCollection(original)

	if len(second.Features) != len(firstFC.Features) {
		t.Fatalf("feature count changed: %d -> %d", len(firstFC.Features), len(second.Features))
	}
	for i := range second.Features {
		assertSameFeature(t, i, firstFC.Features[i], second.Features[i])
	}
}

func assertSameFeature(t *testing.T, i int, want, got *geojson.Feature) {
	t.Helper()

	switch w := want.Geometry.(type) {
	case orb.Point:
		g, ok := got.Geometry.(orb.Point)
		if !ok {
			t.Errorf("feature %d: expected Point, got %T", i, got.Geometry)
			return
		}
		if !near(g[0], w[0]) || !near(g[1], w[1]) {
			t.Errorf("feature %d: got %v, want %v", i, g, w)
		}
	case orb.LineString:
		g, ok := got.Geometry.(orb.LineString)
		if !ok {
			t.Errorf("feature %d: expected LineString, got %T", i, got.Geometry)
			return
		}
		if len(g) != len(w) {
			t.Errorf("feature %d: got %d points, want %d", i, len(g), len(w))
			return
		}
		for j := range g {
			if !near(g[j][0], w[j][0]) || !near(g[j][1], w[j][1]) {
				t.Errorf("feature %d point %d: got %v, want %v", i, j, g[j], w[j])
			}
		}
	default:
		t.Errorf("feature %d: unexpected want geometry %T", i, want.Geometry)
	}

	for k := range want.Properties {
		if _, ok := got.Properties[k]; !ok {
			t.Errorf("feature %d: property %q lost", i, k)
		}
	}
}

func TestMarshalEmptyCollection(t *testing.T) {
	out, err := Marshal(ToFeatureCollection(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"features": []`) {
		t.Errorf("empty collection should render an empty features array, got %s", out)
	}
}
