// geoconvert round-trips a GeoJSON file through the importer and
// exporter, normalizing it to the Point/LineString subset the sketch
// layer supports and reporting what was kept and what was dropped.
package main

import (
	"os"

	"github.com/geosketch/geosketch/internal/convert"
	"github.com/geosketch/geosketch/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input  string `short:"i" long:"input"  description:"Input GeoJSON file" required:"true"`
	Output string `short:"o" long:"output" description:"Output file (stdout when omitted)"`
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

	opts.Logger.Setup()

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	graphics, res, err := convert.FromFeatureCollection(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Input is not valid GeoJSON")
	}

	out, err := convert.Marshal(convert.ToFeatureCollection(graphics))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode output")
	}
	out = append(out, '\n')

	if opts.Output == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}
	} else if err := os.WriteFile(opts.Output, out, 0644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}

	log.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("Conversion finished")
}
