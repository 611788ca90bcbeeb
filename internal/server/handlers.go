// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/geosketch/geosketch/internal/convert"
	"github.com/geosketch/geosketch/internal/geo"
)

// Imports are user-supplied text; cap them well above any realistic
// hand-drawn feature set.
const maxImportBytes = 8 << 20

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/favicon.svg" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleFeatures is the text surface of the sketch layer: GET exports
// the current graphics as pretty-printed GeoJSON, PUT imports a
// FeatureCollection with replace semantics, DELETE clears the layer.
func (s *ServerContext) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeFeatures(w)
	case http.MethodPut:
		s.importFeatures(w, r)
	case http.MethodDelete:
		s.Session.Layer.RemoveAll()
		s.writeFeatures(w)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *ServerContext) writeFeatures(w http.ResponseWriter) {
	text, err := convert.Marshal(convert.ToFeatureCollection(s.Session.Layer.Graphics()))
	if err != nil {
		http.Error(w, "encode features", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(text)
}

type extentJSON struct {
	Min [2]float64 `json:"min"`
	Max [2]float64 `json:"max"`
}

type importResponse struct {
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
	Extent  *extentJSON `json:"extent,omitempty"`
}

// importFeatures replaces the layer contents from the request body.
// Invalid JSON leaves the existing graphics untouched; anything merely
// unusable is skipped and counted. When graphics were created the
// response carries the geographic extent the view should frame.
func (s *ServerContext) importFeatures(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "read request body", http.StatusBadRequest)
		return
	}

	graphics, res, err := convert.FromFeatureCollection(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	importedFeatures.WithLabelValues("created").Add(float64(res.Created))
	importedFeatures.WithLabelValues("skipped").Add(float64(res.Skipped))

	s.Session.Layer.ReplaceAll(graphics)

	resp := importResponse{Created: res.Created, Skipped: res.Skipped}
	if res.Created > 0 {
		if extent, ok := s.Session.FrameToContent(); ok {
			resp.Extent = geographicExtent(extent)
		}
	}

	log.Debug().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("GeoJSON import applied")

	writeJSON(w, resp)
}

// HandleGraphics appends graphics from a FeatureCollection body without
// clearing the layer. This is how the page's sketch tool lands finished
// shapes.
func (s *ServerContext) HandleGraphics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "read request body", http.StatusBadRequest)
		return
	}

	graphics, res, err := convert.FromFeatureCollection(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Session.Layer.AddMany(graphics)

	writeJSON(w, importResponse{Created: res.Created, Skipped: res.Skipped})
}

// HandleDownload packages the current GeoJSON text as a file download.
func (s *ServerContext) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text, err := convert.Marshal(convert.ToFeatureCollection(s.Session.Layer.Graphics()))
	if err != nil {
		http.Error(w, "encode features", http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("features-%d.geojson", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "application/vnd.geo+json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(text)
}

// HandleMode toggles click-to-add-point mode.
func (s *ServerContext) HandleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Click bool `json:"click"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request", http.StatusBadRequest)
		return
	}

	s.Session.SetClickMode(req.Click)
	writeJSON(w, map[string]bool{"click": req.Click})
}

// HandleClick creates a point graphic at a clicked display-projection
// location when click mode is enabled.
func (s *ServerContext) HandleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request", http.StatusBadRequest)
		return
	}

	g := s.Session.HandleClick(req.X, req.Y)
	writeJSON(w, map[string]bool{"created": g != nil})
}

// HandleView reports the current view constraints for page startup.
func (s *ServerContext) HandleView(w http.ResponseWriter, r *http.Request) {
	min, max, zoom := s.Session.View.Constraints()

	resp := struct {
		Min         int         `json:"min"`
		Max         int         `json:"max"`
		Zoom        int         `json:"zoom"`
		Attribution string      `json:"attribution,omitempty"`
		Extent      *extentJSON `json:"extent,omitempty"`
	}{Min: min, Max: max, Zoom: zoom, Attribution: s.Config.Attribution}

	if extent, ok := s.Session.View.Extent(); ok {
		resp.Extent = geographicExtent(extent)
	}

	writeJSON(w, resp)
}

// HandleZoom applies zoom constraints from raw input strings. Invalid
// input is a silent no-op reported as applied=false; the previous
// constraints stay in effect either way.
func (s *ServerContext) HandleZoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Min   string `json:"min"`
		Max   string `json:"max"`
		Start string `json:"start"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request", http.StatusBadRequest)
		return
	}

	applied := s.Session.View.ApplyZoomConstraints(req.Min, req.Max, req.Start)
	min, max, zoom := s.Session.View.Constraints()

	writeJSON(w, struct {
		Applied bool `json:"applied"`
		Min     int  `json:"min"`
		Max     int  `json:"max"`
		Zoom    int  `json:"zoom"`
	}{applied, min, max, zoom})
}

// HandleTiles serves generated basemap tiles at /tiles/{z}/{x}/{y}.webp.
func (s *ServerContext) HandleTiles(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	z, errZ := strconv.Atoi(parts[1])
	x, errX := strconv.Atoi(parts[2])
	y, errY := strconv.Atoi(strings.TrimSuffix(parts[3], ".webp"))
	if errZ != nil || errX != nil || errY != nil {
		http.NotFound(w, r)
		return
	}

	data, hit, err := s.Tiles.Tile(z, x, y)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if hit {
		tileCache.WithLabelValues("hit").Inc()
	} else {
		tileCache.WithLabelValues("miss").Inc()
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

func geographicExtent(b orb.Bound) *extentJSON {
	min, okMin := geo.ToGeographic(geo.Point{XY: b.Min, SR: geo.WebMercator}).(geo.Point)
	max, okMax := geo.ToGeographic(geo.Point{XY: b.Max, SR: geo.WebMercator}).(geo.Point)
	if !okMin || !okMax {
		return nil
	}

	return &extentJSON{
		Min: [2]float64{min.XY[0], min.XY[1]},
		Max: [2]float64{max.XY[0], max.XY[1]},
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
