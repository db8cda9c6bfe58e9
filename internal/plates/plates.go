// Package plates implements S1 (plate synthesis): partitioning the grid
// into P contiguous plates and assigning each a 2D motion vector.
//
// Seed placement is grounded on settlement_placer.go, which scores
// candidate hexes and greedily accepts the best-scoring one
// at least minDist from every previously accepted site — the same
// "sorted candidates + min-distance rejection" shape a Poisson-disk
// sampler needs. Here the candidates come from a phyllotactic
// (golden-angle) lattice, per phi.GrowthAngle, rather than a desirability
// score, since S1 has no notion of settlement quality — but the
// accept/reject loop is the same idiom.
package plates

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/worldgen/internal/grid"
	"github.com/talgya/worldgen/internal/noise"
	"github.com/talgya/worldgen/internal/phi"
)

// Kind classifies a plate's crust type.
type Kind int

const (
	Oceanic Kind = iota
	Continental
)

func (k Kind) String() string {
	if k == Continental {
		return "continental"
	}
	return "oceanic"
}

// Plate describes one tectonic plate's identity, seed location, motion,
// and crust type.
type Plate struct {
	ID   int
	Seed grid.Vec2
	Vel  grid.Vec2
	Kind Kind
	Age  float64 // supplemental field from original_source's TectonicPlate.age
}

// Result is S1's output: every cell's plate_id plus the plate table.
type Result struct {
	PlateID *grid.Field[int]
	Plates  []Plate
}

// Config controls plate synthesis.
type Config struct {
	Width, Height int
	Count         int     // P, validated into [4,40] by config.Config.Validate
	WaterFrac     float64 // biases plate kind distribution
	Scale         float64 // global length scale, widens boundary undulation
}

// Generate runs S1. rnd must come from rng.ForStage so the whole run is
// reproducible from the master seed.
func Generate(cfg Config, rnd *rand.Rand) Result {
	seeds := placeSeeds(cfg, rnd)
	undulation := noise.New2D(rnd.Int64())

	plateID := grid.New[int](cfg.Width, cfg.Height)
	// Perturbation scaled so boundaries undulate by roughly a few cells,
	// not so much that nearest-seed assignment stops tracking the
	// underlying Voronoi structure. Each seed samples the noise field at
	// its own offset, so the perturbation differs between competing
	// seeds and actually moves the boundary between them.
	noiseScale := cfg.Scale * math.Sqrt(float64(cfg.Width)*float64(cfg.Height)) * 0.02
	noiseFreq := 4.0 / (float64(cfg.Width) + float64(cfg.Height))

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			perturb := func(i int) float64 {
				return undulation.Eval2(float64(x)*noiseFreq+float64(i)*17.0, float64(y)*noiseFreq) * noiseScale
			}
			best := nearestSeed(seeds, float64(x), float64(y), perturb)
			plateID.Set(x, y, best)
		}
	}

	plates := make([]Plate, len(seeds))
	continentalTarget := int(math.Round(float64(len(seeds)) * (1.0 - cfg.WaterFrac)))
	if continentalTarget < 1 {
		continentalTarget = 1
	}
	if continentalTarget > len(seeds) {
		continentalTarget = len(seeds)
	}
	// Assign kinds by desirability-free round robin biased toward the
	// water fraction, then let velocity/angle be fully random — mirrors
	// plate_tectonics.rs's "continental_count = (count * fraction).max(2)"
	// split between a spread-out continental set and the remainder.
	order := rnd.Perm(len(seeds))
	isContinental := make([]bool, len(seeds))
	for i := 0; i < continentalTarget; i++ {
		isContinental[order[i]] = true
	}

	for i, s := range seeds {
		angle := rnd.Float64() * 2 * math.Pi
		vel := grid.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
		kind := Oceanic
		if isContinental[i] {
			kind = Continental
		}
		plates[i] = Plate{
			ID:   i,
			Seed: grid.Vec2{X: s.x, Y: s.y},
			Vel:  vel,
			Kind: kind,
			Age:  rnd.Float64() * 100,
		}
	}

	enforceContiguity(plateID)

	return Result{PlateID: plateID, Plates: plates}
}

// enforceContiguity repairs any plate region the noisy nearest-seed
// assignment split into more than one 4-connected component. Nearest-
// seed-plus-smooth-noise is contiguous in the overwhelming majority of
// cells, but boundary undulation can occasionally pinch a region in two;
// spec.md §8 invariant 8 requires every plate_id region be 4-connected,
// so rather than hope the geometry cooperates we detect and fix it: find
// each plate's largest component, then multi-source flood-fill outward
// from every already-resolved cell into the smaller orphan components,
// recoloring each orphan cell to the first resolved neighbor it touches.
// A flood fill is contiguous by construction, so the repaired regions
// are guaranteed connected.
func enforceContiguity(plateID *grid.Field[int]) {
	w, h := plateID.W, plateID.H
	component := grid.Fill(w, h, -1)
	var componentPlate []int
	var componentSize []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if component.At(x, y) != -1 {
				continue
			}
			id := len(componentPlate)
			plate := plateID.At(x, y)
			size := floodLabel(plateID, component, x, y, plate, id)
			componentPlate = append(componentPlate, plate)
			componentSize = append(componentSize, size)
		}
	}

	largestForPlate := map[int]int{} // plate -> component id of its largest component
	for cid, plate := range componentPlate {
		cur, ok := largestForPlate[plate]
		if !ok || componentSize[cid] > componentSize[cur] {
			largestForPlate[plate] = cid
		}
	}

	resolved := grid.Fill(w, h, false)
	type cell struct{ x, y int }
	var queue []cell
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cid := component.At(x, y)
			if largestForPlate[componentPlate[cid]] == cid {
				resolved.Set(x, y, true)
				queue = append(queue, cell{x, y})
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		c := queue[head]
		target := plateID.At(c.x, c.y)
		grid.Von4(w, h, c.x, c.y, func(nx, ny int) {
			if resolved.At(nx, ny) {
				return
			}
			resolved.Set(nx, ny, true)
			plateID.Set(nx, ny, target)
			queue = append(queue, cell{nx, ny})
		})
	}
}

// floodLabel fills component with id over the 4-connected region of
// plateID==plate reachable from (sx,sy), returning the region's size.
func floodLabel(plateID, component *grid.Field[int], sx, sy, plate, id int) int {
	w, h := plateID.W, plateID.H
	type cell struct{ x, y int }
	queue := []cell{{sx, sy}}
	component.Set(sx, sy, id)
	size := 0
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		size++
		grid.Von4(w, h, c.x, c.y, func(nx, ny int) {
			if component.At(nx, ny) != -1 || plateID.At(nx, ny) != plate {
				return
			}
			component.Set(nx, ny, id)
			queue = append(queue, cell{nx, ny})
		})
	}
	return size
}

type seedPoint struct {
	x, y float64
}

// placeSeeds runs Poisson-disk-like rejection sampling over a
// phyllotactic candidate lattice: candidates are visited in lattice
// order (equivalent to settlement_placer.go's "sorted by
// desirability," here sorted by generation order since all
// candidates are equally good a priori) and accepted if they clear
// minDist from every previously accepted seed. minDist relaxes if the
// first pass can't seat Count seeds, exactly as a rejection sampler
// must to guarantee termination.
func placeSeeds(cfg Config, rnd *rand.Rand) []seedPoint {
	area := float64(cfg.Width) * float64(cfg.Height)
	minDist := math.Sqrt(area/float64(cfg.Count)) * 0.6

	// Phyllotactic lattice: index i maps to (radius, angle) so points
	// spread outward from a jittered center with even angular coverage.
	candidateCount := cfg.Count * 40
	jitterX := rnd.Float64()*float64(cfg.Width)*0.1 - float64(cfg.Width)*0.05
	jitterY := rnd.Float64()*float64(cfg.Height)*0.1 - float64(cfg.Height)*0.05
	cx := float64(cfg.Width)/2 + jitterX
	cy := float64(cfg.Height)/2 + jitterY
	maxRadius := math.Hypot(float64(cfg.Width), float64(cfg.Height)) / 2

	candidates := make([]seedPoint, 0, candidateCount)
	for i := 0; i < candidateCount; i++ {
		frac := math.Sqrt(float64(i) / float64(candidateCount))
		radius := frac * maxRadius
		angle := float64(i) * phi.GrowthAngle * math.Pi / 180.0
		px := cx + radius*math.Cos(angle)
		py := cy + radius*math.Sin(angle)
		if px < 0 || px >= float64(cfg.Width) || py < 0 || py >= float64(cfg.Height) {
			continue
		}
		candidates = append(candidates, seedPoint{px, py})
	}

	for attempt := 0; attempt < 8; attempt++ {
		seeds := rejectionPass(candidates, cfg.Count, minDist)
		if len(seeds) >= cfg.Count {
			return seeds[:cfg.Count]
		}
		minDist *= 0.7 // relax and retry
	}
	// Last resort: fall back to uniform random placement so callers
	// always get exactly Count seeds even on pathological aspect ratios.
	seeds := rejectionPass(candidates, cfg.Count, 0)
	for len(seeds) < cfg.Count {
		seeds = append(seeds, seedPoint{
			x: rnd.Float64() * float64(cfg.Width),
			y: rnd.Float64() * float64(cfg.Height),
		})
	}
	return seeds[:cfg.Count]
}

func rejectionPass(candidates []seedPoint, want int, minDist float64) []seedPoint {
	accepted := make([]seedPoint, 0, want)
	for _, c := range candidates {
		if len(accepted) >= want {
			break
		}
		ok := true
		for _, a := range accepted {
			if math.Hypot(c.x-a.x, c.y-a.y) < minDist {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// nearestSeed returns the index of the seed closest to (x,y) under the
// perturbed distance metric d_i = euclidean + perturb(i), breaking ties
// by the lowest seed index so plate regions stay consistent and,
// combined with the smoothness of the perturbation, contiguous
// (spec.md §4.1).
func nearestSeed(seeds []seedPoint, x, y float64, perturb func(i int) float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, s := range seeds {
		d := math.Hypot(x-s.x, y-s.y) + perturb(i)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
