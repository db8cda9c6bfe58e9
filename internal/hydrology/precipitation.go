// Package hydrology implements S7 (orographic precipitation) and S8
// (pit filling, flow direction/accumulation, rivers and lakes).
// Streamline moisture transport is grounded on original_source's
// ClimateSimulator.simulate_prevailing_winds/apply_rain_shadows (carry
// a moisture scalar downwind, deplete it against elevation gain) here
// generalized from a single left/right pass to one streamline per row
// per latitude-band wind direction, stepped with a fixed DDA rule so
// the result is reproducible regardless of how bands are parallelized.
package hydrology

import (
	"math"

	"github.com/talgya/worldgen/internal/grid"
)

// PrecipitationConfig holds S7's tunables, all scaled by
// config.Config.RainIntensity at the call site.
type PrecipitationConfig struct {
	BaseRate        float64 // minimum condensation even with Δh=0
	OrographicGain  float64 // precipitation gained per meter of windward climb
	LeakFactor      float64 // fraction of moisture retained after precipitating, (0,1)
	EvapBase        float64 // evaporation rate from ocean cells at 0°C
	EvapPerDegree   float64 // additional evaporation per °C above 0
}

// DefaultPrecipitationConfig returns spec.md §4.7's suggested shape:
// modest base condensation, strong orographic gain so mountains
// produce visible rain shadows, and a leak factor giving several
// cells of inland drying distance.
func DefaultPrecipitationConfig() PrecipitationConfig {
	return PrecipitationConfig{
		BaseRate:       0.05,
		OrographicGain: 0.01,
		LeakFactor:     0.82,
		EvapBase:       0.3,
		EvapPerDegree:  0.02,
	}
}

// ComputePrecipitation runs S7, producing rainfall. wind is S6's
// per-cell wind field; rainIntensity scales both evaporation and
// orographic gain per spec.md §6's --rain-intensity flag.
func ComputePrecipitation(cfg PrecipitationConfig, elevation *grid.Field[float64], wind *grid.Field[grid.Vec2], isOcean *grid.Field[bool], temperature *grid.Field[float64], seaLevel, rainIntensity float64) *grid.Field[float64] {
	w, h := elevation.W, elevation.H
	rainfall := grid.New[float64](w, h)

	// One streamline per row, stepped along that row's wind vector.
	// Rows share a latitude band's wind_vec (S6), so rows within a
	// band trace parallel streamlines — exactly the "repeat over
	// multiple streamline offsets so every cell is visited" directive
	// in spec.md §4.7, with the offsets being the grid rows themselves.
	for y := 0; y < h; y++ {
		traceStreamline(cfg, elevation, wind, isOcean, temperature, rainfall, seaLevel, rainIntensity, y)
	}

	return rainfall
}

// traceStreamline walks row y along its wind vector using fixed
// DDA-style stepping (spec.md §4.7's "Bresenham-like" requirement),
// carrying a moisture scalar that picks up over ocean and precipitates
// over land, depleting inland and producing rain shadows without any
// shadow-specific logic.
func traceStreamline(cfg PrecipitationConfig, elevation *grid.Field[float64], wind *grid.Field[grid.Vec2], isOcean *grid.Field[bool], temperature *grid.Field[float64], rainfall *grid.Field[float64], seaLevel, rainIntensity float64, y int) {
	w, h := elevation.W, elevation.H
	v := wind.At(0, y)
	if v.X == 0 && v.Y == 0 {
		return
	}

	startX, stepX := streamlineStart(w, v.X)

	// Current streamline position in continuous coordinates; y drifts
	// by v.Y/|v.X| per step, clamped into the grid (edges are
	// out-of-domain, per spec.md §3).
	fx, fy := float64(startX), float64(y)
	moisture := 0.0
	prevElev := elevation.At(startX, clampRow(y, h))

	for step := 0; step < w; step++ {
		ix := int(math.Round(fx))
		iy := clampRow(int(math.Round(fy)), h)
		if ix < 0 || ix >= w {
			break
		}

		elev := elevation.At(ix, iy)
		if isOcean.At(ix, iy) {
			moisture += evap(cfg, temperature.At(ix, iy), rainIntensity)
			rainfall.Set(ix, iy, rainfall.At(ix, iy)+moisture*cfg.BaseRate)
		} else {
			deltaH := elev - prevElev
			if deltaH < 0 {
				deltaH = 0
			}
			if elev < seaLevel {
				deltaH = 0
			}
			p := cfg.BaseRate + cfg.OrographicGain*deltaH*rainIntensity
			if p > moisture {
				p = moisture
			}
			rainfall.Set(ix, iy, rainfall.At(ix, iy)+p)
			moisture = (moisture - p) * cfg.LeakFactor
		}

		prevElev = elev
		if moisture < 0 {
			moisture = 0
		}

		fx += stepX
		if v.X != 0 {
			fy += v.Y / math.Abs(v.X)
		} else {
			fy += sign(v.Y)
		}
	}
}

// streamlineStart picks the grid edge a streamline enters from based
// on its horizontal wind component, and the per-step x increment.
func streamlineStart(w int, vx float64) (int, float64) {
	if vx >= 0 {
		return 0, 1
	}
	return w - 1, -1
}

func clampRow(y, h int) int {
	if y < 0 {
		return 0
	}
	if y >= h {
		return h - 1
	}
	return y
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

// evap returns the evaporation rate for an ocean cell at the given
// temperature: warmer oceans evaporate more, per spec.md §4.7.
func evap(cfg PrecipitationConfig, temperature, rainIntensity float64) float64 {
	rate := cfg.EvapBase + cfg.EvapPerDegree*temperature
	if rate < 0 {
		rate = 0
	}
	return rate * rainIntensity
}
