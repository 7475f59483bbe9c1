package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/photobooth-go/app"
	"github.com/soocke/photobooth-go/config"
	"github.com/soocke/photobooth-go/debug"
)

func main() {
	cfgPath := flag.String("config", "photobooth.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		// cfg holds the defaults merged so far; keep going with them.
		logger.Error("config load failed", "path", *cfgPath, "error", err)
	}

	if cfg.Debug {
		stop := make(chan struct{})
		defer close(stop)
		debug.StartGoroutineLogger(5*time.Second, logger, stop)
		debug.StartMemLogger(10*time.Second, logger, stop)
	}

	c, err := app.BuildContainer(cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	logger.Info("photobooth starting", "config", *cfgPath, "output", cfg.OutputDir)
	app.NewApp("Photobooth", c).Start()
}
