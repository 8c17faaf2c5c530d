// ChartMark is a desktop annotation editor for chart screenshots: freehand
// strokes, shapes, arrows and text drawn over a background image, flattened
// back to a single PNG on save.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"ChartMark/internal/config"
	"ChartMark/internal/ui"
)

func main() {
	var (
		imageRef   = flag.String("image", "", "background image: file path or http(s) URL")
		configPath = flag.String("config", "chartmark.toml", "configuration file")
		exportDir  = flag.String("out", "", "override the export directory")
	)
	flag.Parse()

	if *imageRef == "" {
		fmt.Fprintln(os.Stderr, "usage: chartmark -image <path-or-url> [-config file] [-out dir]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if err := ui.RunApp(cfg, log, *imageRef); err != nil {
		log.Fatal().Err(err).Msg("editor failed to start")
	}
}
