package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/geosketch/geosketch/internal/config"
	"github.com/geosketch/geosketch/internal/logger"
	"github.com/geosketch/geosketch/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string  `short:"c" long:"config"     env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string  `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int     `short:"p" long:"port"       env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	RateLimit  float64 `short:"r" long:"rate-limit" env:"RATE_LIMIT"     description:"API requests per second per client" default:"0"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config; a missing file falls back to defaults so the server
	// runs out of the box.
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		log.Debug().Str("path", opts.ConfigFile).Msg("No configuration file, using defaults")
		cfg = config.Default()
	}

	if opts.RateLimit > 0 {
		cfg.RateLimit = opts.RateLimit
	}

	srvCtx, err := server.NewServerContext(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server context")
	}

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/features", srvCtx.HandleFeatures)
	mux.HandleFunc("/api/features/download", srvCtx.HandleDownload)
	mux.HandleFunc("/api/graphics", srvCtx.HandleGraphics)
	mux.HandleFunc("/api/click", srvCtx.HandleClick)
	mux.HandleFunc("/api/mode", srvCtx.HandleMode)
	mux.HandleFunc("/api/view", srvCtx.HandleView)
	mux.HandleFunc("/api/view/zoom", srvCtx.HandleZoom)
	mux.HandleFunc("/tiles/", srvCtx.HandleTiles)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/favicon.svg", srvCtx.HandleFavicon)
	mux.HandleFunc("/", srvCtx.HandleIndex)

	var handler http.Handler = mux
	if cfg.RateLimit > 0 {
		limiter, err := server.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst, 1024)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
		}
		handler = limiter.Middleware(handler)
	}
	handler = server.RequestLogger(handler)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("zoom_min", cfg.Zoom.Min).
		Int("zoom_max", cfg.Zoom.Max).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
