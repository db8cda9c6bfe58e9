package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/talgya/worldgen/internal/config"
	"github.com/talgya/worldgen/internal/wgerr"
)

// parseFlags builds a config.Config from the flag table in spec.md §6
// plus the additive ambient flags from SPEC_FULL.md §12
// (--history-db, --serve, --log-level). No CLI-building library
// appears anywhere in the reference corpus, so this stays on the
// standard flag package (see DESIGN.md).
func parseFlags(args []string) (cfg config.Config, logLevel, historyDB, serveAddr string, err error) {
	fs := flag.NewFlagSet("worldgen", flag.ContinueOnError)

	d := config.Default()
	fs.IntVar(&d.Width, "width", d.Width, "grid width W")
	fs.IntVar(&d.Height, "height", d.Height, "grid height H")
	seed := fs.Uint64("seed", 0, "master seed (0 derives one from the OS CSPRNG)")
	fs.Float64Var(&d.WaterFrac, "water", d.WaterFrac, "target water fraction, [0.05,0.95]")
	fs.IntVar(&d.Plates, "plates", d.Plates, "plate count P")
	fs.Float64Var(&d.Scale, "scale", d.Scale, "global length scale for noise and range widths")
	fs.StringVar(&d.OutPNG, "out-png", d.OutPNG, "PNG output path")
	fs.StringVar(&d.OutIR, "out-ir", d.OutIR, "IR output path")
	fs.Float64Var(&d.RainIntensity, "rain-intensity", d.RainIntensity, "multiplier on evaporation and orographic gain")
	fs.Float64Var(&d.RiverPercentile, "river-percentile", d.RiverPercentile, "river threshold percentile")
	fs.IntVar(&d.Threads, "threads", d.Threads, "parallelism cap (0 means runtime.GOMAXPROCS)")
	fs.StringVar(&historyDB, "history-db", "", "optional path to a SQLite generation-run history database")
	fs.StringVar(&serveAddr, "serve", "", "optional address to serve the generated world over HTTP after generation")
	fs.StringVar(&logLevel, "log-level", "", "overrides WORLDGEN_LOG (off, info, debug)")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, "", "", "", wgerr.Configf("parsing flags: %v", err)
	}

	d.Seed = *seed
	return d, logLevel, historyDB, serveAddr, nil
}

// configureLogging sets up the default slog handler per SPEC_FULL.md
// §6.1: stderr text handler, level from --log-level, falling back to
// WORLDGEN_LOG, defaulting to info.
func configureLogging(flagLevel string) {
	level := flagLevel
	if level == "" {
		level = os.Getenv("WORLDGEN_LOG")
	}

	var slogLevel slog.Level
	switch level {
	case "off":
		slogLevel = slog.LevelError + 4 // above Error, effectively silent
	case "debug":
		slogLevel = slog.LevelDebug
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	}))
	slog.SetDefault(logger)
}
