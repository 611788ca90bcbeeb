package server

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/geosketch/geosketch/assets"
	"github.com/geosketch/geosketch/internal/config"
	"github.com/geosketch/geosketch/internal/sketch"
	"github.com/geosketch/geosketch/internal/tiles"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Session   *sketch.Session
	Tiles     *tiles.Generator
	IndexHTML []byte
	Favicon   []byte
}

type pageData struct {
	CSS string
	JS  string
}

// NewServerContext initializes the sketching session, the tile
// generator and the minified page from the configuration.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	view := sketch.NewView(cfg.Zoom.Min, cfg.Zoom.Max, cfg.Zoom.Start)
	session := sketch.NewSession(view)

	// The gauge follows every layer mutation batch.
	session.Layer.OnGraphicsChanged(func() {
		graphicsCount.Set(float64(session.Layer.Count()))
	})

	page, err := buildIndex()
	if err != nil {
		return nil, fmt.Errorf("build page: %w", err)
	}

	gen, err := tiles.NewGenerator(cfg.TileCacheSize)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("zoom_min", cfg.Zoom.Min).
		Int("zoom_max", cfg.Zoom.Max).
		Int("page_bytes", len(page)).
		Msg("Server context initialized")

	return &ServerContext{
		Config:    cfg,
		Session:   session,
		Tiles:     gen,
		IndexHTML: page,
		Favicon:   assets.Favicon,
	}, nil
}

// buildIndex inlines the minified CSS and JS into the page template and
// minifies the result.
func buildIndex() ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	cssMin, err := m.String("text/css", string(assets.Style))
	if err != nil {
		return nil, fmt.Errorf("minify css: %w", err)
	}

	jsMin, err := m.String("text/javascript", string(assets.Script))
	if err != nil {
		return nil, fmt.Errorf("minify js: %w", err)
	}

	tmpl, err := template.New("index").Parse(string(assets.Index))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{CSS: cssMin, JS: jsMin}); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	final, err := m.String("text/html", buf.String())
	if err != nil {
		return nil, fmt.Errorf("minify html: %w", err)
	}

	return []byte(final), nil
}
