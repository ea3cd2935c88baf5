// Package main provides the entry point for the Map Scale Calculator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mapscale/internal/app"
	"mapscale/internal/config"
	"mapscale/internal/logging"
	"mapscale/internal/version"
	"mapscale/ui/mainwindow"
	"mapscale/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing "+config.FileName)
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, nil)
	logger.Info().Str("version", version.Version).Str("commit", version.GitCommit).Msgf("Starting %s", version.Name)

	// Positional arguments override the configured marks file and image.
	if args := flag.Args(); len(args) > 0 {
		cfg.Marks.File = args[0]
		if len(args) > 1 {
			cfg.Image.File = args[1]
		}
	}

	appState := app.NewState(cfg, logger)

	a := fyneapp.NewWithID("mapscale")
	a.Settings().SetTheme(&app.MapScaleTheme{})

	win := mainwindow.New(a, appState, prefs.Load(""), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	win.LoadInitial(ctx)

	win.ShowAndRun()
	logger.Info().Msg("Shutting down")
}
