// Command worldgen runs the procedural world generation pipeline end
// to end: plate synthesis, tectonic uplift, erosion, climate, and
// hydrology, then renders a PNG and writes a structured IR dump.
// Flags mirror spec.md §6 exactly; ambient flags (--history-db,
// --serve, --log-level) are additive. Grounded on
// cmd/worldsim/main.go's shape — slog setup, signal-driven shutdown —
// adapted from a long-running mutable simulation into a single batch
// invocation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/worldgen/internal/auditor"
	"github.com/talgya/worldgen/internal/biome"
	"github.com/talgya/worldgen/internal/config"
	"github.com/talgya/worldgen/internal/ledger"
	"github.com/talgya/worldgen/internal/preview"
	"github.com/talgya/worldgen/internal/render"
	"github.com/talgya/worldgen/internal/wgerr"
	"github.com/talgya/worldgen/internal/worldgen"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, logLevel, historyDB, serveAddr, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return wgerr.KindOf(err).ExitCode()
	}

	configureLogging(logLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return wgerr.KindOf(err).ExitCode()
	}

	if cfg.Threads == 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, cancelling generation", "signal", sig)
		cancel()
	}()

	w, err := worldgen.Generate(ctx, cfg)
	if err != nil {
		slog.Error("generation failed", "error", err)
		return wgerr.KindOf(err).ExitCode()
	}

	runID := ledger.NewRunID()
	irFields := render.IRFields{
		Width:  w.Width,
		Height: w.Height,
		RunID:  runID,
		Params: map[string]any{
			"width":            cfg.Width,
			"height":           cfg.Height,
			"seed":             w.Seed,
			"water_frac":       cfg.WaterFrac,
			"plates":           cfg.Plates,
			"scale":            cfg.Scale,
			"rain_intensity":   cfg.RainIntensity,
			"river_percentile": cfg.RiverPercentile,
		},
		Plates:      w.Plates,
		SeaLevel:    w.SeaLevel,
		Elevation:   w.Elevation,
		Temperature: w.Temperature,
		Rainfall:    w.Rainfall,
		PlateID:     w.PlateID,
		Biome:       w.Biome,
		FlowAccum:   w.FlowAccum,
		RiverFlag:   w.RiverFlag,
	}
	dump := render.BuildIRDump(irFields)

	if err := writeOutputs(cfg, w, dump); err != nil {
		slog.Error("writing outputs failed", "error", err)
		return wgerr.KindOf(err).ExitCode()
	}

	report := auditor.Audit(dump)
	for _, c := range report.Checks {
		if !c.Passed {
			slog.Warn("invariant check failed", "check", c.Name, "detail", c.Detail)
		}
	}

	if historyDB != "" {
		recordToLedger(historyDB, ledger.Run{
			ID:                runID,
			Seed:              w.Seed,
			Width:             cfg.Width,
			Height:            cfg.Height,
			Plates:            cfg.Plates,
			WaterFrac:         cfg.WaterFrac,
			ElapsedMillis:     w.Elapsed.Milliseconds(),
			OutPNG:            cfg.OutPNG,
			OutIR:             cfg.OutIR,
			InvariantsChecked: len(report.Checks),
			InvariantsFailed:  report.FailureCount(),
		})
		printRecentHistory(historyDB)
	}

	printSummary(cfg, w, report)

	if serveAddr != "" {
		return serveForever(serveAddr, dump, cfg.OutPNG)
	}

	return 0
}

// writeOutputs writes the PNG then the IR file. If the IR write fails
// after the PNG succeeded, the PNG is removed too, per spec.md §7's
// "partial files removed" rule for IOError.
func writeOutputs(cfg config.Config, w *worldgen.World, dump render.IRDump) error {
	pngFile, err := os.Create(cfg.OutPNG)
	if err != nil {
		return wgerr.IOErrorf("write png", err)
	}
	pngFields := render.PNGFields{
		Elevation:       w.Elevation,
		Temperature:     w.Temperature,
		Rainfall:        w.Rainfall,
		Biome:           w.Biome,
		IsOcean:         w.IsOcean,
		RiverFlag:       w.RiverFlag,
		SeaLevel:        w.SeaLevel,
		AlpineElevation: biome.DefaultConfig().AlpineElevation,
	}
	if err := render.WritePNG(pngFile, pngFields); err != nil {
		pngFile.Close()
		os.Remove(cfg.OutPNG)
		return wgerr.IOErrorf("write png", err)
	}
	if err := pngFile.Close(); err != nil {
		os.Remove(cfg.OutPNG)
		return wgerr.IOErrorf("write png", err)
	}

	irFile, err := os.Create(cfg.OutIR)
	if err != nil {
		os.Remove(cfg.OutPNG)
		return wgerr.IOErrorf("write ir", err)
	}
	if err := render.WriteIR(irFile, dump); err != nil {
		irFile.Close()
		os.Remove(cfg.OutIR)
		os.Remove(cfg.OutPNG)
		return wgerr.IOErrorf("write ir", err)
	}
	if err := irFile.Close(); err != nil {
		os.Remove(cfg.OutIR)
		os.Remove(cfg.OutPNG)
		return wgerr.IOErrorf("write ir", err)
	}

	return nil
}

// recordToLedger is best-effort per SPEC_FULL.md §9: a failure here
// logs a warning and never changes the command's exit code.
func recordToLedger(path string, run ledger.Run) {
	db, err := ledger.Open(path)
	if err != nil {
		slog.Warn("could not open history database", "path", path, "error", err)
		return
	}
	defer db.Close()
	if err := db.Record(run); err != nil {
		slog.Warn("could not record run to ledger", "error", err)
	}
}

// printRecentHistory prints the last few runs recorded to historyDB,
// best-effort like recordToLedger: a failure here only logs a
// warning, it never changes the command's exit code.
func printRecentHistory(path string) {
	db, err := ledger.Open(path)
	if err != nil {
		slog.Warn("could not open history database for recent-run summary", "path", path, "error", err)
		return
	}
	defer db.Close()

	runs, err := db.Recent(5)
	if err != nil {
		slog.Warn("could not read recent runs from ledger", "error", err)
		return
	}
	if len(runs) == 0 {
		return
	}

	fmt.Println("recent runs:")
	for _, r := range runs {
		fmt.Printf("  %s  seed=%d  %dx%d  %s\n", r.ID, r.Seed, r.Width, r.Height, r.CreatedAt)
	}
}

func printSummary(cfg config.Config, w *worldgen.World, report auditor.Report) {
	colored := isatty.IsTerminal(os.Stdout.Fd())
	status := fmt.Sprintf("%d/%d invariant checks passed", len(report.Checks)-report.FailureCount(), len(report.Checks))
	if colored && report.Passed() {
		status = "\033[32m" + status + "\033[0m"
	} else if colored {
		status = "\033[31m" + status + "\033[0m"
	}

	pngSize, ngErr := fileSize(cfg.OutPNG)
	irSize, irErr := fileSize(cfg.OutIR)

	fmt.Printf("world generated in %s (seed %d, %dx%d)\n", w.Elapsed, w.Seed, cfg.Width, cfg.Height)
	if ngErr == nil {
		fmt.Printf("  %s: %s\n", cfg.OutPNG, humanize.Bytes(uint64(pngSize)))
	}
	if irErr == nil {
		fmt.Printf("  %s: %s\n", cfg.OutIR, humanize.Bytes(uint64(irSize)))
	}
	fmt.Printf("  %s\n", status)
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func serveForever(addr string, dump render.IRDump, pngPath string) int {
	pngBytes, err := os.ReadFile(pngPath)
	if err != nil {
		slog.Error("could not read png for preview server", "error", err)
		return wgerr.KindOf(wgerr.IOErrorf("read png", err)).ExitCode()
	}
	srv := preview.NewServer(dump, pngBytes)
	if err := srv.ListenAndServe(addr); err != nil {
		slog.Error("preview server stopped", "error", err)
		return wgerr.KindOf(wgerr.IOErrorf("serve", err)).ExitCode()
	}
	return 0
}
