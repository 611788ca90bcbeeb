// Package sketch owns the live set of drawn graphics and the view state
// of a sketching session. It is the server-side stand-in for the map
// widget's graphics layer: handlers mutate it, observers react to it.
package sketch

import "github.com/geosketch/geosketch/internal/geo"

// Graphic is a single drawn shape: a geometry in the display projection
// plus an optional free-form attribute mapping.
type Graphic struct {
	Geometry   geo.Geometry
	Attributes map[string]interface{}
}
