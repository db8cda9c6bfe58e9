// Package biome implements S9: classifying every land cell into a
// Whittaker-style biome from (temperature, rainfall, elevation), then
// smoothing transitions and carving out beaches along the coast. The
// three-pass shape — classify, then majority-vote smooth, then mark
// beaches along the water-adjacency boundary — is grounded directly on
// original_source's BiomeAssigner.assign_biomes (determine_biome →
// smooth_biome_transitions → add_beaches → enhance_coastal_features),
// with the last two folded here into one beach pass since beach and coastal-variety logic
// overlap once rainfall/temperature already gate the base table.
package biome

import "github.com/talgya/worldgen/internal/grid"

// Biome is a discrete label summarizing expected vegetation.
type Biome int

const (
	Ocean Biome = iota
	Desert
	Savanna
	TropicalForest
	Shrubland
	Grassland
	TemperateForest
	Tundra
	Taiga
	BorealForest
	Ice
	Snow
	Alpine
	Beach
)

func (b Biome) String() string {
	names := [...]string{
		"ocean", "desert", "savanna", "tropical_forest",
		"shrubland", "grassland", "temperate_forest",
		"tundra", "taiga", "boreal_forest", "ice", "snow", "alpine", "beach",
	}
	if int(b) < 0 || int(b) >= len(names) {
		return "unset"
	}
	return names[b]
}

// Config holds the thresholds gating the Whittaker table and the
// supplemental alpine/beach overrides (spec.md §4.9 plus
// original_source's elevation- and coast-adjacency overrides).
type Config struct {
	HotThreshold      float64 // °C, above = "hot" row
	TemperateThreshold float64 // °C, above = "temperate" row, below = "cold"
	FrozenThreshold   float64 // °C, below = "frozen" row

	LowRainThreshold  float64 // rainfall units, below = "low" column
	HighRainThreshold float64 // above = "high" column

	AlpineElevation float64 // meters above sea level; overrides to alpine/snow
	BeachElevation  float64 // meters above sea level; beach candidates must be below this
}

// DefaultConfig mirrors original_source's biomes.rs thresholds,
// rescaled from its 0-20 rainfall units and -20..35 temperature range
// into the same units S5/S7 already use.
func DefaultConfig() Config {
	return Config{
		HotThreshold:       22,
		TemperateThreshold: 5,
		FrozenThreshold:    -10,
		LowRainThreshold:   1.5,
		HighRainThreshold:  6,
		AlpineElevation:    2800,
		BeachElevation:     40,
	}
}

// Result bundles S9's output.
type Result struct {
	Biome *grid.Field[Biome]
}

// Generate runs S9 over the climate and hydrology fields it depends
// on (spec.md §2's dependency table: elevation, temperature, rainfall,
// is_ocean).
func Generate(cfg Config, elevation, temperature, rainfall *grid.Field[float64], isOcean *grid.Field[bool], seaLevel float64) Result {
	w, h := elevation.W, elevation.H
	out := grid.New[Biome](w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOcean.At(x, y) {
				out.Set(x, y, Ocean)
				continue
			}
			above := elevation.At(x, y) - seaLevel
			out.Set(x, y, classify(cfg, temperature.At(x, y), rainfall.At(x, y), above))
		}
	}

	smoothTransitions(out, isOcean)
	addBeaches(cfg, out, elevation, isOcean, seaLevel)

	return Result{Biome: out}
}

// classify is the Whittaker lookup from spec.md §4.9's table, with
// the alpine/snow elevation override and the frozen row both carried
// from the original biomes.rs thresholds.
func classify(cfg Config, temp, rain, above float64) Biome {
	if above > cfg.AlpineElevation {
		if temp < cfg.FrozenThreshold {
			return Snow
		}
		return Alpine
	}

	switch {
	case temp < cfg.FrozenThreshold:
		if rain > cfg.HighRainThreshold {
			return Snow
		}
		return Ice
	case temp < cfg.TemperateThreshold:
		switch {
		case rain < cfg.LowRainThreshold:
			return Tundra
		case rain < cfg.HighRainThreshold:
			return Taiga
		default:
			return BorealForest
		}
	case temp < cfg.HotThreshold:
		switch {
		case rain < cfg.LowRainThreshold:
			return Shrubland
		case rain < cfg.HighRainThreshold:
			return Grassland
		default:
			return TemperateForest
		}
	default:
		switch {
		case rain < cfg.LowRainThreshold:
			return Desert
		case rain < cfg.HighRainThreshold:
			return Savanna
		default:
			return TropicalForest
		}
	}
}

// smoothTransitions replaces a land cell's biome with its Moore-8
// neighborhood's most common non-ocean biome whenever at least four of
// its eight neighbors differ, directly generalizing
// smooth_biome_transitions's "different_neighbors >= 4" majority-vote
// rule from original_source. Rivers get no special exemption here
// since biome assignment runs independently of river_flag in this
// pipeline (S9 doesn't read hydrology's river/lake fields, per
// spec.md §2's dependency table).
func smoothTransitions(biomeField *grid.Field[Biome], isOcean *grid.Field[bool]) {
	w, h := biomeField.W, biomeField.H
	out := biomeField.Clone()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOcean.At(x, y) {
				continue
			}
			current := biomeField.At(x, y)
			counts := map[Biome]int{}
			differing := 0
			grid.Moore8(w, h, x, y, func(_ grid.Direction, nx, ny int) {
				b := biomeField.At(nx, ny)
				if b == Ocean {
					return
				}
				counts[b]++
				if b != current {
					differing++
				}
			})
			if differing < 4 {
				continue
			}
			best := current
			bestCount := -1
			// Iterate candidates in a fixed order (increasing Biome
			// value) so ties always resolve the same way.
			for b := Desert; b <= Alpine; b++ {
				if counts[b] > bestCount {
					bestCount = counts[b]
					best = b
				}
			}
			out.Set(x, y, best)
		}
	}
	copy(biomeField.Raw(), out.Raw())
}

// addBeaches marks low-elevation land cells adjacent to ocean as
// Beach, generalizing original_source's add_beaches water-adjacency
// check from a fixed 0.3 elevation cutoff to a configurable
// BeachElevation measured above sea level.
func addBeaches(cfg Config, biomeField *grid.Field[Biome], elevation *grid.Field[float64], isOcean *grid.Field[bool], seaLevel float64) {
	w, h := biomeField.W, biomeField.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOcean.At(x, y) {
				continue
			}
			if elevation.At(x, y)-seaLevel >= cfg.BeachElevation {
				continue
			}
			adjacentToWater := false
			grid.Moore8(w, h, x, y, func(_ grid.Direction, nx, ny int) {
				if isOcean.At(nx, ny) {
					adjacentToWater = true
				}
			})
			if adjacentToWater {
				biomeField.Set(x, y, Beach)
			}
		}
	}
}
