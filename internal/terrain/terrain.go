// Package terrain implements S3: layering small-amplitude detail noise
// onto base_elevation, eroding it with a bounded number of hydraulic
// droplet simulations, and smoothing the result with a light diffusion
// pass. Grounded on world.Generate's own noise layering (octaveNoise
// summed straight onto elev) generalized to run as a *second* noise
// pass on top of an already-shaped field, plus settlement_placer.go's
// "simulate many independent actors, commit results in a fixed order"
// shape reused for the droplet population.
package terrain

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/worldgen/internal/grid"
	"github.com/talgya/worldgen/internal/noise"
	"github.com/talgya/worldgen/internal/rng"
)

// Config controls detail noise, erosion, and smoothing.
type Config struct {
	Scale          float64 // global length scale, widens noise features
	DetailAmplitude float64 // meters, small relative to tectonic relief
	Droplets       int     // number of hydraulic erosion iterations
	SmoothingPasses int    // number of diffusion passes
}

// DefaultConfig returns erosion parameters scaled to a grid's area, so
// larger worlds get proportionally more droplets without the caller
// tuning anything by hand.
func DefaultConfig(width, height int, scale float64) Config {
	area := width * height
	return Config{
		Scale:           scale,
		DetailAmplitude: 60.0,
		Droplets:        area / 8,
		SmoothingPasses: 2,
	}
}

// Generate runs S3 over base_elevation, returning elevation. rnd must
// come from rng.ForStage so droplet starting points are reproducible.
func Generate(cfg Config, base *grid.Field[float64], rnd *rand.Rand) *grid.Field[float64] {
	elevation := base.Clone()

	addDetailNoise(elevation, cfg, rnd.Int64())
	addRidgeDetail(elevation, cfg, rnd.Int64())
	erode(elevation, cfg, rnd)
	for i := 0; i < cfg.SmoothingPasses; i++ {
		smooth(elevation)
	}

	return elevation
}

// addDetailNoise layers multi-octave noise at small amplitude to break
// the symmetry a purely analytic uplift field would otherwise have
// (spec.md §4.3). Frequency is tied to Scale the same way
// plates.Generate ties its boundary-undulation frequency to grid area,
// so a --scale change affects every stage's noise consistently.
func addDetailNoise(elevation *grid.Field[float64], cfg Config, seed int64) {
	src := noise.New2D(seed)
	freq := 6.0 / (float64(elevation.W)+float64(elevation.H)) / cfg.Scale
	elevation.Map(func(x, y int, v float64) float64 {
		n := noise.Octave(src, float64(x), float64(y), 4, freq, 0.5)
		return v + n*cfg.DetailAmplitude
	})
}

// addRidgeDetail layers noise.Ridged noise on top of the rounded
// detail pass, weighted toward cells already well above sea level, so
// mountains gain sharp linear ridgelines without flat lowland
// acquiring the same jagged texture (spec.md §4.3's "mountain detail
// should look different from plains detail").
func addRidgeDetail(elevation *grid.Field[float64], cfg Config, seed int64) {
	src := noise.New2D(seed)
	freq := 3.0 / (float64(elevation.W) + float64(elevation.H)) / cfg.Scale
	elevation.Map(func(x, y int, v float64) float64 {
		if v <= 0 {
			return v
		}
		n := noise.Octave(src, float64(x), float64(y), 3, freq, 0.5)
		ridge := noise.Ridged(n)
		weight := v / 2000.0
		if weight > 1 {
			weight = 1
		}
		return v + ridge*cfg.DetailAmplitude*0.5*weight
	})
}

// droplet carries sediment as it flows downhill from a random start
// cell, eroding where under capacity and depositing where over,
// exactly as spec.md §4.3 describes. Droplets that leave the grid are
// discarded without depositing their remaining sediment, per the edge
// policy.
type droplet struct {
	x, y     float64
	vx, vy   float64
	sediment float64
	water    float64
}

const (
	dropletInertia      = 0.05
	dropletCapacityFactor = 8.0
	dropletDeposition   = 0.3
	dropletErosion      = 0.3
	dropletEvaporation  = 0.02
	dropletMinSlope     = 0.01
	dropletMaxSteps     = 128
)

// dropletBatchSize groups droplet starting points into independently
// seeded sub-streams (rng.Sub) rather than drawing every start point
// from one running stream, so a future batch-parallel erode can hand
// each batch its own *rand.Rand without any batch depending on where
// the previous one left its stream position.
const dropletBatchSize = 2048

// erode runs cfg.Droplets independent hydraulic erosion simulations
// against elevation. Each droplet is simulated to completion and its
// elevation changes committed before the next droplet starts, so two
// droplets never race on the same cell — satisfying the "commutative
// updates" parallel model from spec.md §5 by simply not parallelizing
// across droplets that might collide, which keeps the stage trivially
// deterministic regardless of thread count.
func erode(elevation *grid.Field[float64], cfg Config, rnd *rand.Rand) {
	w, h := elevation.W, elevation.H
	batchSeed := rnd.Uint64()
	for start := 0; start < cfg.Droplets; start += dropletBatchSize {
		end := start + dropletBatchSize
		if end > cfg.Droplets {
			end = cfg.Droplets
		}
		batchRnd := rng.ForStage(batchSeed, rng.Sub("droplets", start/dropletBatchSize))
		for i := start; i < end; i++ {
			d := droplet{
				x:     batchRnd.Float64() * float64(w-1),
				y:     batchRnd.Float64() * float64(h-1),
				water: 1.0,
			}
			simulateDroplet(elevation, &d)
		}
	}
}

func simulateDroplet(elevation *grid.Field[float64], d *droplet) {
	w, h := elevation.W, elevation.H

	for step := 0; step < dropletMaxSteps; step++ {
		ix, iy := int(d.x), int(d.y)
		if ix < 0 || ix >= w || iy < 0 || iy >= h {
			return // left the grid; discard remaining sediment
		}

		gx, gy := gradient(elevation, ix, iy)
		d.vx = d.vx*(1-dropletInertia) - gx*dropletInertia
		d.vy = d.vy*(1-dropletInertia) - gy*dropletInertia
		speed := math.Hypot(d.vx, d.vy)
		if speed < 1e-9 {
			// No clear downhill direction: deposit everything and stop.
			elevation.Set(ix, iy, elevation.At(ix, iy)+d.sediment)
			return
		}
		d.vx /= speed
		d.vy /= speed

		oldElev := elevation.At(ix, iy)
		d.x += d.vx
		d.y += d.vy
		nx, ny := int(d.x), int(d.y)
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			return
		}
		newElev := elevation.At(nx, ny)
		slope := oldElev - newElev

		capacity := math.Max(slope, dropletMinSlope) * speed * d.water * dropletCapacityFactor
		if d.sediment > capacity {
			deposit := (d.sediment - capacity) * dropletDeposition
			d.sediment -= deposit
			elevation.Set(ix, iy, elevation.At(ix, iy)+deposit)
		} else {
			erodeAmt := math.Min((capacity-d.sediment)*dropletErosion, oldElev-newElev+50)
			if erodeAmt < 0 {
				erodeAmt = 0
			}
			d.sediment += erodeAmt
			elevation.Set(ix, iy, elevation.At(ix, iy)-erodeAmt)
		}

		d.water *= 1 - dropletEvaporation
		if d.water < 0.01 {
			elevation.Set(nx, ny, elevation.At(nx, ny)+d.sediment)
			return
		}
	}
}

// gradient estimates the elevation gradient at (x,y) using clamped
// central differences, matching grid.Clamp's edge-clamping convention
// for diffusion-family passes.
func gradient(elevation *grid.Field[float64], x, y int) (float64, float64) {
	w, h := elevation.W, elevation.H
	x1, _ := grid.Clamp(w, h, x+1, y)
	x0, _ := grid.Clamp(w, h, x-1, y)
	_, y1 := grid.Clamp(w, h, x, y+1)
	_, y0 := grid.Clamp(w, h, x, y-1)
	gx := (elevation.At(x1, y) - elevation.At(x0, y)) / 2
	gy := (elevation.At(x, y1) - elevation.At(x, y0)) / 2
	return gx, gy
}

// smooth applies one light Gaussian-style diffusion pass over
// elevation, pulling each cell slightly toward its von-Neumann-4
// neighbor average to remove single-cell noise spikes left over from
// erosion and detail noise (spec.md §4.3).
func smooth(elevation *grid.Field[float64]) {
	w, h := elevation.W, elevation.H
	out := elevation.Clone()
	const weight = 0.15

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			count := 0
			grid.Von4(w, h, x, y, func(nx, ny int) {
				sum += elevation.At(nx, ny)
				count++
			})
			if count == 0 {
				continue
			}
			avg := sum / float64(count)
			v := elevation.At(x, y)
			out.Set(x, y, v+(avg-v)*weight)
		}
	}
	copy(elevation.Raw(), out.Raw())
}
