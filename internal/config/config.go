// Package config holds the generator's tunable parameters and the
// validation that turns out-of-range CLI input into a ConfigError before
// any simulation work begins. Generalizes
// world.GenConfig/DefaultGenConfig/SmallTestConfig's trio (one struct,
// one "sane defaults" constructor, one "small, fast, for tests"
// constructor) from a four-field hex-world config into the full
// flag table of spec.md §6.
package config

import (
	"math"

	"github.com/talgya/worldgen/internal/wgerr"
)

// Config holds every CLI-tunable parameter controlling a generation run.
type Config struct {
	Width  int
	Height int

	Seed uint64 // 0 means "derive one from rng.DefaultSeed in worldgen.Generate"

	WaterFrac float64 // target ocean fraction, [0.05, 0.95]
	Plates    int     // plate count P, [4, 40]
	Scale     float64 // global length scale for noise / range widths

	RainIntensity    float64 // multiplier on evap and orographic gain
	RiverPercentile  float64 // flow_accum percentile that becomes the river threshold

	Threads int // parallelism cap; 0 means runtime.GOMAXPROCS(0)

	OutPNG string
	OutIR  string

	HistoryDB string // optional ledger path; "" disables the ledger
	Serve     string // optional preview server bind address; "" disables it
}

// Default returns the CLI defaults from spec.md §6.
func Default() Config {
	return Config{
		Width:           1024,
		Height:          1024,
		Seed:            0,
		WaterFrac:       0.6,
		Plates:          12,
		Scale:           1.0,
		RainIntensity:   1.0,
		RiverPercentile: 0.98,
		Threads:         0,
		OutPNG:          "world.png",
		OutIR:           "world.json",
	}
}

// Tiny returns a small, fast configuration for tests and the S-tiny
// scenario in spec.md §8: 64x64, seed 1, water 0.6, 6 plates.
func Tiny() Config {
	c := Default()
	c.Width, c.Height = 64, 64
	c.Seed = 1
	c.Plates = 6
	return c
}

// Validate reports the first out-of-range field as a ConfigError, or nil
// if cfg is internally consistent. Dimensions and ranges are checked
// eagerly and cheaply here so that, per spec.md §7, "no simulation runs"
// on bad input.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return wgerr.Configf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return wgerr.Configf("height must be positive, got %d", c.Height)
	}
	if c.WaterFrac < 0.05 || c.WaterFrac > 0.95 {
		return wgerr.Configf("water must be in [0.05, 0.95], got %v", c.WaterFrac)
	}
	if c.Plates < 4 || c.Plates > 40 {
		return wgerr.Configf("plates must be in [4, 40], got %d", c.Plates)
	}
	if c.Scale <= 0 {
		return wgerr.Configf("scale must be positive, got %v", c.Scale)
	}
	if c.RainIntensity < 0 {
		return wgerr.Configf("rain-intensity must be non-negative, got %v", c.RainIntensity)
	}
	if c.RiverPercentile <= 0 || c.RiverPercentile >= 1 {
		return wgerr.Configf("river-percentile must be in (0, 1), got %v", c.RiverPercentile)
	}
	if c.Threads < 0 {
		return wgerr.Configf("threads must be non-negative, got %d", c.Threads)
	}
	if c.OutPNG == "" {
		return wgerr.Configf("out-png must not be empty")
	}
	if c.OutIR == "" {
		return wgerr.Configf("out-ir must not be empty")
	}
	return nil
}

// CharacteristicLength returns sqrt(W*H)/20, scaled by Scale — the
// L_range the uplift stage (S2) uses as the exponential decay length for
// boundary-contribution deposition (spec.md §4.2).
func (c Config) CharacteristicLength() float64 {
	return c.Scale * math.Sqrt(float64(c.Width)*float64(c.Height)) / 20.0
}
