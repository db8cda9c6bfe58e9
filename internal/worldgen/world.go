// Package worldgen ties together every pipeline stage and runs them
// in sequence, producing a complete World. Grounded on
// engine.Simulation (one struct aggregating every subsystem's state,
// a slog.Info line bracketing the work, structured stage-by-stage
// construction) but replacing its tick loop with the single-pass
// stage sequence spec.md §2 requires: S_{k+1} only begins once S_k
// has returned, since every stage consumes fields its predecessors
// wrote.
package worldgen

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/worldgen/internal/biome"
	"github.com/talgya/worldgen/internal/climate"
	"github.com/talgya/worldgen/internal/config"
	"github.com/talgya/worldgen/internal/grid"
	"github.com/talgya/worldgen/internal/hydrology"
	"github.com/talgya/worldgen/internal/plates"
	"github.com/talgya/worldgen/internal/rng"
	"github.com/talgya/worldgen/internal/tectonics"
	"github.com/talgya/worldgen/internal/terrain"
	"github.com/talgya/worldgen/internal/wgerr"
)

// World aggregates every field the pipeline produces. Each field is
// written by exactly one stage and is read-only to every stage after
// it (spec.md §3's ownership rule) — nothing in this package mutates
// a field once its producing stage returns.
type World struct {
	Width, Height int
	Seed          uint64

	Plates  []plates.Plate
	PlateID *grid.Field[int]

	BaseElevation *grid.Field[float64]
	Elevation     *grid.Field[float64]

	SeaLevel float64
	IsOcean  *grid.Field[bool]

	Temperature *grid.Field[float64]
	Wind        *grid.Field[grid.Vec2]
	Rainfall    *grid.Field[float64]

	HydroElevation *grid.Field[float64]
	FlowDir        *grid.Field[grid.Direction]
	FlowAccum      *grid.Field[float64]
	RiverFlag      *grid.Field[bool]
	LakeFlag       *grid.Field[bool]
	RiverThreshold float64

	Biome *grid.Field[biome.Biome]

	Elapsed time.Duration
}

// Generate runs S1 through S9 (S10 is the caller's concern: rendering
// reads World but isn't part of generation per se, matching spec.md
// §2's own table, which lists S10 as a stage but spec.md §5 calls out
// PNG/IR writing as the one post-generation I/O step). ctx is polled
// at each stage boundary for cooperative cancellation (spec.md §5);
// cancellation discards the partially-built World and returns
// wgerr.Cancelled.
func Generate(ctx context.Context, cfg config.Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	seed := cfg.Seed
	if seed == 0 {
		seed = rng.DefaultSeed()
	}
	slog.Info("generation started", "width", cfg.Width, "height", cfg.Height, "seed", seed, "plates", cfg.Plates)

	w := &World{Width: cfg.Width, Height: cfg.Height, Seed: seed}

	if err := checkCancelled(ctx, "plates"); err != nil {
		return nil, err
	}
	plateRes := plates.Generate(plates.Config{
		Width: cfg.Width, Height: cfg.Height,
		Count: cfg.Plates, WaterFrac: cfg.WaterFrac, Scale: cfg.Scale,
	}, rng.ForStage(seed, "plates"))
	w.Plates = plateRes.Plates
	w.PlateID = plateRes.PlateID
	slog.Debug("stage complete", "stage", "S1_plates", "elapsed", time.Since(start))

	if err := checkCancelled(ctx, "tectonics"); err != nil {
		return nil, err
	}
	w.BaseElevation = tectonics.Generate(tectonics.Config{
		CharacteristicLength: cfg.CharacteristicLength(),
	}, plateRes)
	slog.Debug("stage complete", "stage", "S2_tectonics")

	if err := checkCancelled(ctx, "terrain"); err != nil {
		return nil, err
	}
	terrainCfg := terrain.DefaultConfig(cfg.Width, cfg.Height, cfg.Scale)
	w.Elevation = terrain.Generate(terrainCfg, w.BaseElevation, rng.ForStage(seed, "terrain"))
	slog.Debug("stage complete", "stage", "S3_terrain")

	if err := checkCancelled(ctx, "sealevel"); err != nil {
		return nil, err
	}
	seaRes := climate.ComputeSeaLevel(w.Elevation, cfg.WaterFrac)
	w.SeaLevel = seaRes.SeaLevel
	w.IsOcean = seaRes.IsOcean
	slog.Debug("stage complete", "stage", "S4_sealevel", "sea_level", w.SeaLevel)

	if err := checkCancelled(ctx, "temperature"); err != nil {
		return nil, err
	}
	w.Temperature = climate.ComputeTemperature(climate.DefaultTemperatureConfig(), w.Elevation, w.IsOcean, w.SeaLevel)
	slog.Debug("stage complete", "stage", "S5_temperature")

	if err := checkCancelled(ctx, "winds"); err != nil {
		return nil, err
	}
	w.Wind = climate.ComputeWinds(cfg.Width, cfg.Height)
	slog.Debug("stage complete", "stage", "S6_winds")

	if err := checkCancelled(ctx, "precipitation"); err != nil {
		return nil, err
	}
	w.Rainfall = hydrology.ComputePrecipitation(
		hydrology.DefaultPrecipitationConfig(),
		w.Elevation, w.Wind, w.IsOcean, w.Temperature, w.SeaLevel, cfg.RainIntensity,
	)
	slog.Debug("stage complete", "stage", "S7_precipitation")

	if err := checkCancelled(ctx, "hydrology"); err != nil {
		return nil, err
	}
	flow := hydrology.Generate(w.Elevation, w.IsOcean, w.Rainfall, cfg.RiverPercentile)
	w.HydroElevation = flow.HydroElevation
	w.FlowDir = flow.FlowDir
	w.FlowAccum = flow.FlowAccum
	w.RiverFlag = flow.RiverFlag
	w.LakeFlag = flow.LakeFlag
	w.RiverThreshold = flow.RiverThreshold
	slog.Debug("stage complete", "stage", "S8_hydrology", "river_threshold", w.RiverThreshold)

	if err := checkCancelled(ctx, "biome"); err != nil {
		return nil, err
	}
	biomeRes := biome.Generate(biome.DefaultConfig(), w.Elevation, w.Temperature, w.Rainfall, w.IsOcean, w.SeaLevel)
	w.Biome = biomeRes.Biome
	slog.Debug("stage complete", "stage", "S9_biome")

	w.Elapsed = time.Since(start)
	slog.Info("generation complete", "elapsed", w.Elapsed)

	return w, nil
}

// checkCancelled polls ctx at a stage boundary, per spec.md §5's
// cooperative cancellation requirement ("abort flag polled at stage
// boundaries"). stage names the boundary being crossed for the log.
func checkCancelled(ctx context.Context, stage string) error {
	select {
	case <-ctx.Done():
		slog.Info("generation cancelled", "before_stage", stage)
		return wgerr.Cancelled(stage)
	default:
		return nil
	}
}
